package feed

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"booktrack/internal/platform/googlebooks"

	"github.com/go-playground/validator/v10"
)

// VolumesClient is the slice of the Google Books client the adapter needs.
type VolumesClient interface {
	SearchVolumes(ctx context.Context, query string, maxResults int) (*googlebooks.VolumesResponse, error)
}

// VolumeAdapter wraps a general volume search keyed by the feed-native
// volume id. A nil client means the credential is absent.
type VolumeAdapter struct {
	client     VolumesClient
	query      string
	maxResults int
	validate   *validator.Validate
}

func NewVolumeAdapter(client VolumesClient, query string, maxResults int) *VolumeAdapter {
	return &VolumeAdapter{
		client:     client,
		query:      query,
		maxResults: maxResults,
		validate:   validator.New(),
	}
}

func (a *VolumeAdapter) Source() Source {
	return SourceVolumes
}

func (a *VolumeAdapter) Fetch(ctx context.Context) ([]Candidate, error) {
	if a.client == nil {
		return nil, &Error{
			Source: SourceVolumes,
			Kind:   SourceUnavailable,
			Err:    errors.New("missing api key"),
		}
	}

	res, err := a.client.SearchVolumes(ctx, a.query, a.maxResults)
	if err != nil {
		kind := SourceUnavailable
		if errors.Is(err, googlebooks.ErrDecode) {
			kind = MalformedPayload
		}
		return nil, &Error{Source: SourceVolumes, Kind: kind, Err: err}
	}

	if err := a.validate.Struct(res); err != nil {
		return nil, &Error{Source: SourceVolumes, Kind: MalformedPayload, Err: err}
	}

	candidates := make([]Candidate, 0, len(res.Items))
	for _, v := range res.Items {
		info := v.VolumeInfo

		var author string
		if len(info.Authors) > 0 {
			author = info.Authors[0]
		}

		raw, _ := json.Marshal(v)
		candidates = append(candidates, Candidate{
			Source:      SourceVolumes,
			VolumeID:    v.ID,
			ISBN13:      isbn13From(info.IndustryIdentifiers),
			Title:       info.Title,
			Author:      author,
			Description: info.Description,
			CoverURL:    httpsURL(info.ImageLinks.Thumbnail),
			PageCount:   info.PageCount,
			Published:   parsePublished(info.PublishedDate),
			Raw:         raw,
		})
	}
	return candidates, nil
}

func isbn13From(ids []googlebooks.IndustryIdentifier) string {
	for _, id := range ids {
		if id.Type == "ISBN_13" {
			return id.Identifier
		}
	}
	return ""
}

// Google serves thumbnails over plain http.
func httpsURL(u string) string {
	return strings.Replace(u, "http:", "https:", 1)
}

var publishedLayouts = []string{"2006-01-02", "2006-01", "2006"}

// parsePublished handles the year, year-month, and full-date forms the
// volumes API returns. Anything else counts as unknown.
func parsePublished(s string) *time.Time {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
