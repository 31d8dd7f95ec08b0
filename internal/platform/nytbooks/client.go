package nytbooks

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
		BaseURL:    "https://api.nytimes.com",
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// ListResponse matches /svc/books/v3/lists/current/{list}.json
type ListResponse struct {
	Status  string `json:"status"`
	Results struct {
		ListName    string `json:"list_name"`
		PublishedOn string `json:"published_date"`
		Books       []Book `json:"books" validate:"dive"`
	} `json:"results"`
}

type Book struct {
	Rank          int    `json:"rank" validate:"required,min=1"`
	RankLastWeek  int    `json:"rank_last_week"`
	WeeksOnList   int    `json:"weeks_on_list"`
	PrimaryISBN13 string `json:"primary_isbn13"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	Publisher     string `json:"publisher"`
	BookImage     string `json:"book_image"`
}

// CurrentList fetches the current best-seller list, e.g. "hardcover-fiction".
func (c *Client) CurrentList(ctx context.Context, list string) (*ListResponse, error) {
	u := fmt.Sprintf("%s/svc/books/v3/lists/current/%s.json?api-key=%s",
		c.BaseURL, url.PathEscape(list), url.QueryEscape(c.apiKey))

	var res ListResponse
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
