package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kochj23/NewsMobile/internal/cache"
	"github.com/kochj23/NewsMobile/internal/retry"
)

// Fetcher performs HTTP GETs against feed endpoints with a per-request
// timeout, bounded retries and a short-lived payload cache.
type Fetcher struct {
	client   *http.Client
	cache    *cache.Cache
	cacheTTL time.Duration
	retry    retry.Config
}

type FetcherOptions struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	CacheTTL      time.Duration // zero disables caching
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 1
	}
	return &Fetcher{
		client:   &http.Client{Timeout: opts.Timeout},
		cache:    cache.New(),
		cacheTTL: opts.CacheTTL,
		retry: retry.Config{
			MaxAttempts: opts.RetryAttempts,
			Delay:       opts.RetryDelay,
			Backoff:     true,
		},
	}
}

// Fetch returns the raw response body for url. Transport failures and
// non-2xx statuses are errors; the caller degrades them to zero articles.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.cacheTTL > 0 {
		if body, ok := f.cache.Get(url); ok {
			return body, nil
		}
	}

	var body []byte
	err := retry.WithRetry(ctx, f.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "NewsMobile/1.0")

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if f.cacheTTL > 0 {
		f.cache.Set(url, body, f.cacheTTL)
	}
	return body, nil
}
