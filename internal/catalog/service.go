package catalog

import (
	"context"
	"time"
)

// newReleaseWindow is how far back a publish date still counts as new.
const newReleaseWindow = 3 * 30 * 24 * time.Hour

// Service provides catalog browse and search logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Search returns entries matching the free-text query, ordered by
// trending score, plus the total match count.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]Entry, int, error) {
	return s.repo.Search(ctx, q)
}

// Featured returns the most reviewed entries.
func (s *Service) Featured(ctx context.Context, limit int) ([]Entry, error) {
	return s.repo.Featured(ctx, limit)
}

// NewReleases returns entries published within the last three months,
// newest first.
func (s *Service) NewReleases(ctx context.Context, limit int) ([]Entry, error) {
	return s.repo.NewReleases(ctx, s.now().Add(-newReleaseWindow), limit)
}

// GetByKey resolves a natural key: thirteen digits are treated as an
// ISBN-13, anything else as a volume id.
func (s *Service) GetByKey(ctx context.Context, key string) (Entry, error) {
	k := NaturalKey{VolumeID: key}
	if isISBN13(key) {
		k = NaturalKey{ISBN13: key}
	}
	return s.repo.GetByNaturalKey(ctx, k)
}

func isISBN13(s string) bool {
	if len(s) != 13 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
