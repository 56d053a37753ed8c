package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shelfkeeper/shelfkeeper-server/internal/normalize"
)

// DefaultBaseURL is the public OpenLibrary endpoint.
const DefaultBaseURL = "https://openlibrary.org"

// DefaultTimeout bounds a single lookup request.
const DefaultTimeout = 30 * time.Second

// Lookup failures. Every failure is one of these, possibly wrapped.
var (
	// ErrNotFound means the catalogue has no edition for the ISBN.
	ErrNotFound = errors.New("openlibrary: isbn not found")
	// ErrUnavailable means the request could not be made or completed.
	ErrUnavailable = errors.New("openlibrary: service unavailable")
	// ErrUnexpectedStatus means the service answered with a non-200 status.
	ErrUnexpectedStatus = errors.New("openlibrary: unexpected status")
	// ErrMalformed means the response body could not be decoded.
	ErrMalformed = errors.New("openlibrary: malformed response")
)

// Client looks up editions by ISBN.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new OpenLibrary client.
// An empty baseURL selects DefaultBaseURL and a non-positive timeout selects DefaultTimeout.
// Requests are limited to one per second with a burst of 5.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
		logger:      logger,
	}
}

// Lookup fetches the edition for a cleaned, digits-only ISBN.
func (c *Client) Lookup(ctx context.Context, isbn string) (*Record, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %w", ErrUnavailable, err)
	}

	key := "ISBN:" + isbn
	params := url.Values{}
	params.Set("bibkeys", key)
	params.Set("jscmd", "data")
	params.Set("format", "json")
	lookupURL := c.baseURL + "/api/books?" + params.Encode()

	c.logger.Debug("looking up isbn", "isbn", isbn, "url", lookupURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var result map[string]bookResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	book, ok := result[key]
	if !ok {
		return nil, ErrNotFound
	}

	rec := toRecord(isbn, &book)
	c.logger.Debug("isbn found", "isbn", isbn, "title", rec.Title, "author", rec.Author)
	return rec, nil
}

func toRecord(isbn string, b *bookResponse) *Record {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}

	rec := &Record{
		ISBN:          isbn,
		Title:         b.Title,
		Author:        normalize.FormatAuthors(names),
		PublishedYear: normalize.ExtractYear(b.PublishDate),
		PageCount:     b.NumberOfPages,
	}
	if len(b.Publishers) > 0 {
		rec.Publisher = b.Publishers[0].Name
	}
	if b.Cover != nil {
		rec.CoverURL = b.Cover.Large
		if rec.CoverURL == "" {
			rec.CoverURL = b.Cover.Medium
		}
	}
	return rec
}
