// Package archive orchestrates page archiving. It coordinates fetching,
// markdown conversion, normalization, and storage of rendered pages, with
// bounded retry around the operations that touch the network.
package archive

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pagearc/pagearc"
	"github.com/pagearc/pagearc/bloom"
	"github.com/pagearc/pagearc/retry"
)

// Archiver orchestrates the archiving of rendered pages.
//
// Fetcher, Converter, Normalizer, and Writer are required. Titles, Manifest,
// Limiter, and Seen are optional; leaving them nil disables title extraction,
// unchanged-page skipping, rate limiting, and batch dedup respectively.
type Archiver struct {
	Fetcher    pagearc.Fetcher
	Converter  pagearc.Converter
	Normalizer pagearc.Normalizer
	Titles     pagearc.TitleExtractor
	Writer     pagearc.DocumentWriter
	Manifest   pagearc.ManifestService
	Limiter    *DomainLimiter
	Seen       *bloom.Filter
	Policy     retry.Policy
	Options    pagearc.NormalizeOptions
}

// PageStatus describes the outcome of archiving a single page.
type PageStatus int

const (
	// StatusSaved means the page was written and recorded.
	StatusSaved PageStatus = iota
	// StatusUnchanged means the manifest already holds this content hash.
	StatusUnchanged
	// StatusExists means the target file exists and overwriting is disabled.
	StatusExists
)

// Result holds the outcome of a batch archive operation.
type Result struct {
	Saved   int
	Failed  int
	Skipped int
	Bytes   int
}

// ProgressEvent reports progress during a batch archive operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Status    PageStatus
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting archive progress.
type ProgressFunc func(event ProgressEvent)

// contentHash computes the xxHash of content as a fixed-width hex string.
func contentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// ArchivePage fetches, converts, normalizes, and stores a single page.
// Fetching and conversion run under the archiver's retry policy; the
// remaining steps are deterministic and run once.
func (a *Archiver) ArchivePage(ctx context.Context, pageURL string) (*pagearc.Document, PageStatus, error) {
	policy := a.Policy
	if policy.MaxAttempts == 0 {
		policy = retry.DefaultPolicy()
	}

	html, err := retry.DoValue(ctx, policy, func(ctx context.Context) (string, error) {
		return a.Fetcher.Fetch(ctx, pageURL)
	})
	if err != nil {
		return nil, StatusSaved, err
	}

	var title string
	if a.Titles != nil {
		title = a.Titles.Title(html)
	}

	markdown, err := retry.DoValue(ctx, policy, func(ctx context.Context) (string, error) {
		return a.Converter.Convert(html)
	})
	if err != nil {
		return nil, StatusSaved, err
	}

	content := a.Normalizer.Normalize(markdown, a.Options)

	doc := &pagearc.Document{
		SourceURL:   pageURL,
		Title:       title,
		Content:     content,
		ContentHash: contentHash(content),
		FetchedAt:   time.Now().UTC(),
	}

	if a.Manifest != nil {
		prior, err := a.Manifest.FindDocumentByURL(ctx, pageURL)
		if err != nil && pagearc.ErrorCode(err) != pagearc.ENOTFOUND {
			return nil, StatusSaved, err
		}
		if err == nil && prior.ContentHash == doc.ContentHash {
			doc.ID = prior.ID
			doc.FilePath = prior.FilePath
			return doc, StatusUnchanged, nil
		}
	}

	if err := a.Writer.WriteDocument(ctx, doc); err != nil {
		if pagearc.ErrorCode(err) == pagearc.EEXISTS {
			return doc, StatusExists, nil
		}
		return nil, StatusSaved, err
	}

	if a.Manifest != nil {
		if err := a.Manifest.RecordDocument(ctx, doc); err != nil {
			return nil, StatusSaved, err
		}
	}

	return doc, StatusSaved, nil
}

// ArchiveAll archives a batch of URLs sequentially, in order. A page failure
// is counted and reported but never aborts the run; only context cancellation
// stops it early. The progress callback, if provided, receives events as the
// run proceeds.
func (a *Archiver) ArchiveAll(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	total := len(urls)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	var result Result
	completed := 0

	for _, pageURL := range urls {
		if ctx.Err() != nil {
			break
		}

		if a.Seen != nil && a.Seen.Seen(pageURL) {
			completed++
			result.Skipped++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressSkipped,
					Completed: completed,
					Total:     total,
					URL:       pageURL,
				})
			}
			continue
		}

		if a.Limiter != nil {
			u, err := url.Parse(pageURL)
			if err != nil {
				completed++
				result.Failed++
				if progress != nil {
					progress(ProgressEvent{
						Type:      ProgressFailed,
						Completed: completed,
						Total:     total,
						URL:       pageURL,
						Error:     err,
					})
				}
				continue
			}
			if err := a.Limiter.Wait(ctx, u.Host); err != nil {
				break // context canceled during wait
			}
		}

		doc, status, err := a.ArchivePage(ctx, pageURL)
		completed++

		switch {
		case err != nil:
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: completed,
					Total:     total,
					URL:       pageURL,
					Error:     err,
				})
			}

		case status != StatusSaved:
			result.Skipped++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressSkipped,
					Completed: completed,
					Total:     total,
					URL:       pageURL,
					Status:    status,
				})
			}

		default:
			result.Saved++
			result.Bytes += len(doc.Content)
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressCompleted,
					Completed: completed,
					Total:     total,
					URL:       pageURL,
				})
			}
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	}

	return &result, ctx.Err()
}
