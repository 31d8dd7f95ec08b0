package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Source identifies the external feed a candidate came from.
type Source string

const (
	SourceBestsellers Source = "NYT_BESTSELLERS"
	SourceVolumes     Source = "GOOGLE_BOOKS"
)

// Candidate is the normalized shape both adapters emit. Rank fields are
// populated for best-seller candidates only; Rank == 0 means unranked.
type Candidate struct {
	Source      Source
	ISBN13      string
	VolumeID    string
	Title       string
	Author      string
	Description string
	CoverURL    string
	PageCount   int
	Published   *time.Time

	Rank         int // 0 = unranked
	RankLastWeek int // 0 = unknown
	WeeksOnList  int

	Raw json.RawMessage
}

// Fetcher produces one finite batch of candidates per ingestion pass.
// A fetch failure yields an empty batch plus a classified *Error; it is
// never fatal to the pass.
type Fetcher interface {
	Source() Source
	Fetch(ctx context.Context) ([]Candidate, error)
}

type ErrorKind string

const (
	SourceUnavailable ErrorKind = "SOURCE_UNAVAILABLE"
	MalformedPayload  ErrorKind = "MALFORMED_PAYLOAD"
)

// Error classifies a recoverable feed failure.
type Error struct {
	Source Source
	Kind   ErrorKind
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("feed %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
