package trending

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booktrack/internal/feed"

	"github.com/stretchr/testify/assert"
)

func TestHTTPHandler_Refresh(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(now)
	svc := newTestService([]feed.Fetcher{
		&stubFetcher{source: feed.SourceVolumes, cands: []feed.Candidate{
			{Source: feed.SourceVolumes, VolumeID: "v1", Title: "Quiet Rivers", Author: "Sam Reed"},
		}},
	}, store, &fakeRuns{}, now)

	handler := NewHTTPHandler(svc, "s3cret")

	t.Run("rejects a wrong secret", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/internal/jobs/refresh", nil)
		r.Header.Set("X-Internal-Secret", "nope")

		handler.Refresh(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("runs a pass with the right secret", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/internal/jobs/refresh", nil)
		r.Header.Set("X-Internal-Secret", "s3cret")

		handler.Refresh(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, store.entries, 1)
	})
}
