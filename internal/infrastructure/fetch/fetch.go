package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"SubTracker/internal/ports"
)

// Error reports that one provider's page could not be retrieved after
// exhausting all attempts. It never aborts the enclosing batch.
type Error struct {
	URL      string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fetcher retrieves pricing pages with per-attempt timeout and
// exponential retry backoff.
type Fetcher struct {
	client      *http.Client
	maxAttempts int
	backoffBase time.Duration
	userAgent   string
	logger      *slog.Logger
}

var _ ports.PageFetcher = (*Fetcher)(nil)

// New wires an HTTP client; a nil client gets the configured timeout.
func New(client *http.Client, timeout time.Duration, maxAttempts int, backoffBase time.Duration, userAgent string, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Fetcher{
		client:      client,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		userAgent:   userAgent,
		logger:      logger,
	}
}

// Fetch performs a GET with redirects, retrying on any failure with
// delay backoffBase × 2^(attempt−1) between attempts.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := f.backoffBase * time.Duration(1<<(attempt-2))
			f.debug("retrying fetch", "url", url, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &Error{URL: url, Attempts: attempt - 1, Err: ctx.Err()}
			}
		}

		doc, err := f.fetchOnce(ctx, url)
		if err == nil {
			return doc, nil
		}
		lastErr = err
	}

	return nil, &Error{URL: url, Attempts: f.maxAttempts, Err: lastErr}
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
