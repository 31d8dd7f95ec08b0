package trending

import (
	"context"
	"errors"
	"log"
	"time"

	"booktrack/internal/catalog"
	"booktrack/internal/feed"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	FreshnessWindow time.Duration // trending read window, default 7 days
	FetchTimeout    time.Duration // per-feed fetch budget, default 20s
	DefaultTopN     int
}

// Store is the slice of the catalog repository the reconciler needs.
type Store interface {
	GetByNaturalKey(ctx context.Context, key catalog.NaturalKey) (catalog.Entry, error)
	Create(ctx context.Context, e *catalog.Entry, provider string, raw []byte) error
	Update(ctx context.Context, e *catalog.Entry, provider string, raw []byte) error
	TopByScore(ctx context.Context, since time.Time, limit int) ([]catalog.Entry, error)
}

type RunRepository interface {
	CreateRun(ctx context.Context, run *Run) (string, error)
	UpdateRun(ctx context.Context, run *Run) error
}

// Service merges candidates from all configured feeds into the catalog
// and serves the trending read query. One pass fetches every feed,
// scores the full candidate set, then upserts sequentially by natural
// key.
type Service struct {
	fetchers []feed.Fetcher
	store    Store
	runs     RunRepository
	cfg      Config
	now      func() time.Time
}

func NewService(fetchers []feed.Fetcher, store Store, runs RunRepository, cfg Config) *Service {
	if cfg.FreshnessWindow <= 0 {
		cfg.FreshnessWindow = 7 * 24 * time.Hour
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 20 * time.Second
	}
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = 12
	}
	return &Service{
		fetchers: fetchers,
		store:    store,
		runs:     runs,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run executes one ingestion pass and returns its record. Feed outages,
// malformed payloads, rejected candidates, and per-candidate store
// failures all degrade the pass; only run bookkeeping failures abort it.
func (s *Service) Run(ctx context.Context) (*Run, error) {
	run := &Run{
		Status:    StatusRunning,
		StartedAt: s.now(),
	}
	runID, err := s.runs.CreateRun(ctx, run)
	if err != nil {
		return nil, err
	}
	run.ID = runID

	defer func() {
		now := s.now()
		run.FinishedAt = &now
		if run.Error != "" {
			run.Status = StatusFailed
		} else {
			run.Status = StatusCompleted
		}
		if updateErr := s.runs.UpdateRun(ctx, run); updateErr != nil {
			log.Printf("failed to update refresh run %s: %v", run.ID, updateErr)
		}
	}()

	candidates := s.fetchAll(ctx, run)

	now := s.now()
	for _, c := range candidates {
		if ctx.Err() != nil {
			run.Error = ctx.Err().Error()
			break
		}
		s.reconcile(ctx, run, c, now)
	}

	return run, nil
}

// Refresh runs a pass and reports only its overall outcome.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.Run(ctx)
	return err
}

// Trending returns the top entries by score whose last update falls
// within the freshness window. It never triggers a pass itself.
func (s *Service) Trending(ctx context.Context, limit int) ([]catalog.Entry, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultTopN
	}
	since := s.now().Add(-s.cfg.FreshnessWindow)
	return s.store.TopByScore(ctx, since, limit)
}

// fetchAll queries every feed concurrently and waits for all of them;
// reconciliation needs the full candidate set before it starts. A
// failed feed contributes nothing and leaves a warning on the run.
func (s *Service) fetchAll(ctx context.Context, run *Run) []feed.Candidate {
	batches := make([][]feed.Candidate, len(s.fetchers))
	fetchErrs := make([]error, len(s.fetchers))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.fetchers {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, s.cfg.FetchTimeout)
			defer cancel()
			batches[i], fetchErrs[i] = f.Fetch(fctx)
			return nil
		})
	}
	_ = g.Wait()

	var all []feed.Candidate
	for i, f := range s.fetchers {
		if fetchErrs[i] != nil {
			log.Printf("feed %s degraded: %v", f.Source(), fetchErrs[i])
			run.Warnings = append(run.Warnings, fetchErrs[i].Error())
			continue
		}
		switch f.Source() {
		case feed.SourceBestsellers:
			run.BestsellersFetched += len(batches[i])
		case feed.SourceVolumes:
			run.VolumesFetched += len(batches[i])
		}
		all = append(all, batches[i]...)
	}
	return all
}

func (s *Service) reconcile(ctx context.Context, run *Run, c feed.Candidate, now time.Time) {
	key := catalog.NaturalKey{ISBN13: c.ISBN13, VolumeID: c.VolumeID}
	if key.Zero() || c.Title == "" || c.Author == "" {
		run.Rejected++
		return
	}

	score := Score(c, now)

	entry, err := s.store.GetByNaturalKey(ctx, key)
	switch {
	case err == nil:
		entry.TrendingScore = score
		mergeDescriptive(&entry, c)
		if err := s.store.Update(ctx, &entry, string(c.Source), c.Raw); err != nil {
			log.Printf("failed to update entry (isbn13=%q volume_id=%q): %v", c.ISBN13, c.VolumeID, err)
			run.StoreErrors++
			return
		}
		run.Updated++

	case errors.Is(err, catalog.ErrNotFound):
		entry := catalog.Entry{
			ISBN13:        c.ISBN13,
			VolumeID:      c.VolumeID,
			Title:         c.Title,
			Author:        c.Author,
			Description:   c.Description,
			CoverURL:      c.CoverURL,
			PageCount:     c.PageCount,
			Published:     c.Published,
			TrendingScore: score,
		}
		if err := s.store.Create(ctx, &entry, string(c.Source), c.Raw); err != nil {
			log.Printf("failed to create entry (isbn13=%q volume_id=%q): %v", c.ISBN13, c.VolumeID, err)
			run.StoreErrors++
			return
		}
		run.Created++

	default:
		log.Printf("failed to look up entry (isbn13=%q volume_id=%q): %v", c.ISBN13, c.VolumeID, err)
		run.StoreErrors++
	}
}

// mergeDescriptive refreshes descriptive fields only when the incoming
// candidate supplies them; identity fields stay as they are.
func mergeDescriptive(e *catalog.Entry, c feed.Candidate) {
	if c.Title != "" {
		e.Title = c.Title
	}
	if c.Author != "" {
		e.Author = c.Author
	}
	if c.Description != "" {
		e.Description = c.Description
	}
	if c.CoverURL != "" {
		e.CoverURL = c.CoverURL
	}
	if c.PageCount > 0 {
		e.PageCount = c.PageCount
	}
	if c.Published != nil {
		e.Published = c.Published
	}
}
