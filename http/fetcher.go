// Package http provides an HTTP-based implementation of pagearc.Fetcher for
// fetching static pages that don't require JavaScript rendering, and sitemap
// URL discovery for batch archiving.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pagearc/pagearc"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements pagearc.Fetcher at compile time.
var _ pagearc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static sites only.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient sets the underlying HTTP client. Mostly useful for tests.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. Non-200 responses
// become application errors carrying the status in their context, so the
// retry layer can classify them.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", pagearc.WrapError(err, pagearc.EINVALID, "creating request", nil)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", pagearc.WrapError(err, pagearc.ETIMEOUT, "request timed out", map[string]any{"url": url})
		}
		return "", pagearc.WrapError(err, pagearc.ENETWORK, "request failed", map[string]any{"url": url})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", pagearc.WrapError(nil, pagearc.EINTERNAL,
			fmt.Sprintf("HTTP %d for %s", resp.StatusCode, url),
			map[string]any{"status": resp.StatusCode, "url": url})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", pagearc.WrapError(err, pagearc.ENETWORK, "reading response body", map[string]any{"url": url})
	}

	return string(body), nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
