package catalog

import (
	"context"
	"time"
)

// Repository defines the contract for catalog entry storage.
type Repository interface {
	GetByNaturalKey(ctx context.Context, key NaturalKey) (Entry, error)
	Create(ctx context.Context, e *Entry, provider string, raw []byte) error
	Update(ctx context.Context, e *Entry, provider string, raw []byte) error
	TopByScore(ctx context.Context, since time.Time, limit int) ([]Entry, error)
	Search(ctx context.Context, q SearchQuery) ([]Entry, int, error)
	Featured(ctx context.Context, limit int) ([]Entry, error)
	NewReleases(ctx context.Context, since time.Time, limit int) ([]Entry, error)
}
