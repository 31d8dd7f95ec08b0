package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrDecode marks responses that arrived but could not be parsed.
var ErrDecode = errors.New("decode response")

type Client struct {
	httpClient *http.Client
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int

	// BaseURL is overridable for tests.
	BaseURL string
}

func NewClient(apiKey string, rps int, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey:     apiKey,
		BaseURL:    "https://www.googleapis.com",
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// VolumesResponse matches /books/v1/volumes
type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items" validate:"dive"`
}

type Volume struct {
	ID         string     `json:"id" validate:"required"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	PublishedDate string   `json:"publishedDate"`
	PageCount     int      `json:"pageCount"`
	ImageLinks    struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
}

type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// SearchVolumes runs a volume search, e.g. query "subject:fiction bestseller".
func (c *Client) SearchVolumes(ctx context.Context, query string, maxResults int) (*VolumesResponse, error) {
	u := fmt.Sprintf("%s/books/v1/volumes?q=%s&maxResults=%d&orderBy=relevance&key=%s",
		c.BaseURL, url.QueryEscape(query), maxResults, url.QueryEscape(c.apiKey))

	var res VolumesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return nil
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
