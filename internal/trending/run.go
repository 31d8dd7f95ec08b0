package trending

import (
	"time"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Run records one ingestion pass: what each feed contributed and how
// the reconciler disposed of every candidate.
type Run struct {
	ID                 string     `json:"id"`
	StartedAt          time.Time  `json:"started_at"`
	FinishedAt         *time.Time `json:"finished_at,omitempty"`
	Status             string     `json:"status"`
	BestsellersFetched int        `json:"bestsellers_fetched"`
	VolumesFetched     int        `json:"volumes_fetched"`
	Created            int        `json:"created"`
	Updated            int        `json:"updated"`
	Rejected           int        `json:"rejected"`
	StoreErrors        int        `json:"store_errors"`
	Warnings           []string   `json:"warnings,omitempty"`
	Error              string     `json:"error,omitempty"`
}
