// Package rod provides a browser-automation implementation of pagearc.Fetcher
// using headless Chrome, for pages that require JavaScript rendering.
package rod

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pagearc/pagearc"
)

// DefaultFetchTimeout bounds a single page navigation including rendering.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxPages is the number of pages fetched before the browser is
// recycled. Chrome accumulates memory over time and the baseline never
// returns to initial levels even with proper page cleanup, so long batch
// runs need a periodic fresh browser.
const DefaultMaxPages = 75

// DefaultBlockedPatterns skip resources that never contribute to the
// archived text: images, media, fonts, and common analytics endpoints.
func DefaultBlockedPatterns() []string {
	return []string{
		"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg",
		"*.woff", "*.woff2", "*.ttf", "*.mp4", "*.webm",
		"*googletagmanager*", "*google-analytics*", "*doubleclick*",
	}
}

// Ensure Fetcher implements pagearc.Fetcher at compile time.
var _ pagearc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use, though the archiver drives it one page
// at a time.
type Fetcher struct {
	mu        sync.Mutex
	browser   *rod.Browser
	lnchr     *launcher.Launcher
	pageCount int

	timeout    time.Duration
	waitStable bool
	blocked    []string
	maxPages   int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-page navigation timeout.
// Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithWaitStable waits for the page's DOM to stop mutating after load,
// instead of returning as soon as the load event fires. Slower but more
// reliable on pages that render content asynchronously.
func WithWaitStable(enabled bool) Option {
	return func(f *Fetcher) { f.waitStable = enabled }
}

// WithBlockedPatterns sets the request URL patterns that are aborted rather
// than fetched. Pass no patterns to disable blocking entirely.
func WithBlockedPatterns(patterns ...string) Option {
	return func(f *Fetcher) { f.blocked = patterns }
}

// WithMaxPages sets the number of pages fetched before the browser is
// recycled. Defaults to DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) { f.maxPages = n }
}

// NewFetcher creates a Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		blocked:  DefaultBlockedPatterns(),
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.acquireBrowser()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", wrapFetchError(err, url)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.timeout)

	if len(f.blocked) > 0 {
		router := page.HijackRequests()
		for _, pattern := range f.blocked {
			if err := router.Add(pattern, "", func(h *rod.Hijack) {
				h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			}); err != nil {
				return "", wrapFetchError(err, url)
			}
		}
		go router.Run()
		defer router.Stop()
	}

	if err := page.Navigate(url); err != nil {
		return "", wrapFetchError(err, url)
	}
	if err := page.WaitLoad(); err != nil {
		return "", wrapFetchError(err, url)
	}
	if f.waitStable {
		if err := page.WaitStable(300 * time.Millisecond); err != nil {
			return "", wrapFetchError(err, url)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", wrapFetchError(err, url)
	}

	f.mu.Lock()
	f.pageCount++
	f.mu.Unlock()

	return html, nil
}

// Close releases browser resources. Safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeLocked()
}

// acquireBrowser returns the current browser, recycling it once the page
// count reaches maxPages. If relaunching fails the old browser is kept so
// in-flight work can continue.
func (f *Fetcher) acquireBrowser() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return nil, pagearc.Errorf(pagearc.EINTERNAL, "fetcher is closed")
	}

	if f.maxPages > 0 && f.pageCount >= f.maxPages {
		oldBrowser, oldLauncher := f.browser, f.lnchr
		f.browser, f.lnchr = nil, nil
		if err := f.launch(); err != nil {
			f.browser, f.lnchr = oldBrowser, oldLauncher
		} else {
			f.pageCount = 0
			_ = oldBrowser.Close()
			oldLauncher.Kill()
		}
	}

	return f.browser, nil
}

// launch starts a fresh browser with stability flags.
func (f *Fetcher) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return pagearc.WrapError(err, pagearc.EINTERNAL, "launching browser", nil)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return pagearc.WrapError(err, pagearc.EINTERNAL, "connecting to browser", nil)
	}

	f.browser = browser
	f.lnchr = lnchr
	return nil
}

// closeLocked shuts down the browser and launcher. Must hold mu.
func (f *Fetcher) closeLocked() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.lnchr != nil {
		f.lnchr.Kill()
		f.lnchr = nil
	}
	return err
}

// wrapFetchError maps a browser failure into the error taxonomy: deadline
// and context timeouts become ETIMEOUT, everything else is a network-shaped
// fetch failure.
func wrapFetchError(err error, url string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pagearc.WrapError(err, pagearc.ETIMEOUT, "navigation timed out", map[string]any{"url": url})
	}
	return pagearc.WrapError(err, pagearc.ENETWORK, "fetching page", map[string]any{"url": url})
}
