package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"booktrack/internal/platform/nytbooks"

	"github.com/go-playground/validator/v10"
)

// BestsellerClient is the slice of the NYT Books client the adapter needs.
type BestsellerClient interface {
	CurrentList(ctx context.Context, list string) (*nytbooks.ListResponse, error)
}

// BestsellerAdapter wraps a ranked best-seller list keyed by ISBN-13.
// A nil client means the credential is absent; the adapter then degrades
// to an empty contribution instead of failing the pass.
type BestsellerAdapter struct {
	client   BestsellerClient
	list     string
	validate *validator.Validate
}

func NewBestsellerAdapter(client BestsellerClient, list string) *BestsellerAdapter {
	return &BestsellerAdapter{
		client:   client,
		list:     list,
		validate: validator.New(),
	}
}

func (a *BestsellerAdapter) Source() Source {
	return SourceBestsellers
}

func (a *BestsellerAdapter) Fetch(ctx context.Context) ([]Candidate, error) {
	if a.client == nil {
		return nil, &Error{
			Source: SourceBestsellers,
			Kind:   SourceUnavailable,
			Err:    errors.New("missing api key"),
		}
	}

	res, err := a.client.CurrentList(ctx, a.list)
	if err != nil {
		kind := SourceUnavailable
		if errors.Is(err, nytbooks.ErrDecode) {
			kind = MalformedPayload
		}
		return nil, &Error{Source: SourceBestsellers, Kind: kind, Err: err}
	}

	if res.Status != "OK" {
		return nil, &Error{
			Source: SourceBestsellers,
			Kind:   MalformedPayload,
			Err:    fmt.Errorf("unexpected status %q", res.Status),
		}
	}
	if err := a.validate.Struct(res); err != nil {
		return nil, &Error{Source: SourceBestsellers, Kind: MalformedPayload, Err: err}
	}

	candidates := make([]Candidate, 0, len(res.Results.Books))
	for _, b := range res.Results.Books {
		raw, _ := json.Marshal(b)
		candidates = append(candidates, Candidate{
			Source:       SourceBestsellers,
			ISBN13:       b.PrimaryISBN13,
			Title:        b.Title,
			Author:       b.Author,
			Description:  b.Description,
			CoverURL:     b.BookImage,
			Rank:         b.Rank,
			RankLastWeek: b.RankLastWeek,
			WeeksOnList:  b.WeeksOnList,
			Raw:          raw,
		})
	}
	return candidates, nil
}
