package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booktrack/internal/platform/googlebooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumesPayload = `{
	"totalItems": 2,
	"items": [
		{
			"id": "vol-abc",
			"volumeInfo": {
				"title": "Quiet Rivers",
				"authors": ["Sam Reed", "Co Writer"],
				"description": "A novel about rivers.",
				"publishedDate": "2026-05-14",
				"pageCount": 320,
				"imageLinks": {"thumbnail": "http://books.example.com/vol-abc.jpg"},
				"industryIdentifiers": [
					{"type": "ISBN_10", "identifier": "0123456789"},
					{"type": "ISBN_13", "identifier": "9780123456786"}
				]
			}
		},
		{
			"id": "vol-def",
			"volumeInfo": {
				"title": "Untitled Draft",
				"publishedDate": "2026"
			}
		}
	]
}`

func newVolumesClient(t *testing.T, handler http.HandlerFunc) *googlebooks.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := googlebooks.NewClient("test-key", 100, 0)
	client.BaseURL = server.URL
	return client
}

func TestVolumeAdapter_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes volumes", func(t *testing.T) {
		client := newVolumesClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/books/v1/volumes", r.URL.Path)
			assert.Equal(t, "subject:fiction bestseller", r.URL.Query().Get("q"))
			assert.Equal(t, "40", r.URL.Query().Get("maxResults"))
			_, _ = w.Write([]byte(volumesPayload))
		})
		a := NewVolumeAdapter(client, "subject:fiction bestseller", 40)

		cands, err := a.Fetch(ctx)
		require.NoError(t, err)
		require.Len(t, cands, 2)

		first := cands[0]
		assert.Equal(t, SourceVolumes, first.Source)
		assert.Equal(t, "vol-abc", first.VolumeID)
		assert.Equal(t, "9780123456786", first.ISBN13, "prefers the ISBN_13 identifier")
		assert.Equal(t, "Sam Reed", first.Author, "primary author only")
		assert.Equal(t, "https://books.example.com/vol-abc.jpg", first.CoverURL)
		assert.Equal(t, 320, first.PageCount)
		require.NotNil(t, first.Published)
		assert.Equal(t, time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC), *first.Published)
		assert.Zero(t, first.Rank)

		second := cands[1]
		assert.Empty(t, second.ISBN13)
		assert.Empty(t, second.Author)
		require.NotNil(t, second.Published, "year-only dates still parse")
		assert.Equal(t, 2026, second.Published.Year())
	})

	t.Run("transport failure degrades to source unavailable", func(t *testing.T) {
		server := httptest.NewServer(nil)
		client := googlebooks.NewClient("test-key", 100, 0)
		client.BaseURL = server.URL
		server.Close() // connection refused from here on
		a := NewVolumeAdapter(client, "subject:fiction", 10)

		cands, err := a.Fetch(ctx)
		assert.Empty(t, cands)

		var ferr *Error
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, SourceUnavailable, ferr.Kind)
	})

	t.Run("item without an id fails schema validation", func(t *testing.T) {
		client := newVolumesClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items":[{"volumeInfo":{"title":"X"}}]}`))
		})
		a := NewVolumeAdapter(client, "subject:fiction", 10)

		_, err := a.Fetch(ctx)

		var ferr *Error
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, MalformedPayload, ferr.Kind)
	})

	t.Run("missing credential degrades the same way", func(t *testing.T) {
		a := NewVolumeAdapter(nil, "subject:fiction", 10)

		cands, err := a.Fetch(ctx)
		assert.Empty(t, cands)

		var ferr *Error
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, SourceUnavailable, ferr.Kind)
	})
}

func TestParsePublished(t *testing.T) {
	assert.Nil(t, parsePublished(""))
	assert.Nil(t, parsePublished("sometime"))
	require.NotNil(t, parsePublished("2026-05"))
	assert.Equal(t, time.May, parsePublished("2026-05").Month())
}
