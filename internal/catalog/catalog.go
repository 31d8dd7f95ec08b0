package catalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no entry matches a natural key.
var ErrNotFound = errors.New("catalog entry not found")

// Entry is a book in the local catalog. At least one of ISBN13 or
// VolumeID is always set; both may be.
type Entry struct {
	ID            string     `json:"id"`
	ISBN13        string     `json:"isbn13,omitempty"`
	VolumeID      string     `json:"volume_id,omitempty"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Description   string     `json:"description,omitempty"`
	CoverURL      string     `json:"cover_url,omitempty"`
	PageCount     int        `json:"page_count,omitempty"`
	Published     *time.Time `json:"published_date,omitempty"`
	TrendingScore float64    `json:"trending_score"`
	ReviewCount   int        `json:"review_count"`
	ViewCount     int        `json:"view_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NaturalKey addresses an entry by its external identifiers. Either
// field may be empty; an empty field never matches.
type NaturalKey struct {
	ISBN13   string
	VolumeID string
}

func (k NaturalKey) Zero() bool {
	return k.ISBN13 == "" && k.VolumeID == ""
}

// SearchQuery defines free-text filtering and pagination.
type SearchQuery struct {
	Q      string
	Limit  int
	Offset int
}
