package archive_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pagearc/pagearc"
	"github.com/pagearc/pagearc/archive"
	"github.com/pagearc/pagearc/bloom"
	"github.com/pagearc/pagearc/mock"
	"github.com/pagearc/pagearc/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastPolicy keeps retry tests quick.
func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

// newArchiver wires a happy-path pipeline; individual tests override fields.
func newArchiver() *archive.Archiver {
	return &archive.Archiver{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html><head><title>Page</title></head><body><p>Hello</p></body></html>", nil
			},
		},
		Converter: &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "Hello\n", nil
			},
		},
		Normalizer: &mock.Normalizer{
			NormalizeFn: func(text string, opts pagearc.NormalizeOptions) string {
				return strings.TrimSpace(text)
			},
		},
		Titles: &mock.TitleExtractor{
			TitleFn: func(html string) string { return "Page" },
		},
		Writer: &mock.DocumentWriter{
			WriteDocumentFn: func(ctx context.Context, doc *pagearc.Document) error {
				doc.FilePath = "page.md"
				return nil
			},
		},
		Policy: fastPolicy(),
	}
}

func TestArchiver_ArchivePage(t *testing.T) {
	t.Parallel()

	t.Run("archives a page end to end", func(t *testing.T) {
		t.Parallel()

		var recorded *pagearc.Document
		a := newArchiver()
		a.Manifest = &mock.ManifestService{
			FindDocumentByURLFn: func(ctx context.Context, sourceURL string) (*pagearc.Document, error) {
				return nil, pagearc.Errorf(pagearc.ENOTFOUND, "document not found")
			},
			RecordDocumentFn: func(ctx context.Context, doc *pagearc.Document) error {
				recorded = doc
				return nil
			},
		}

		doc, status, err := a.ArchivePage(context.Background(), "https://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, archive.StatusSaved, status)
		assert.Equal(t, "https://example.com/page", doc.SourceURL)
		assert.Equal(t, "Page", doc.Title)
		assert.Equal(t, "Hello", doc.Content, "normalized content is stored")
		assert.Equal(t, "page.md", doc.FilePath)
		assert.Regexp(t, `^[0-9a-f]{16}$`, doc.ContentHash)
		assert.False(t, doc.FetchedAt.IsZero())
		assert.Same(t, doc, recorded, "document is recorded in the manifest")
	})

	t.Run("retries transient fetch failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		a := newArchiver()
		a.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				if calls < 3 {
					return "", pagearc.WrapError(nil, pagearc.ENETWORK,
						"server error", map[string]any{"status": 503})
				}
				return "<html></html>", nil
			},
		}

		_, status, err := a.ArchivePage(context.Background(), "https://example.com/flaky")

		require.NoError(t, err)
		assert.Equal(t, archive.StatusSaved, status)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent fetch failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		a := newArchiver()
		a.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				calls++
				return "", pagearc.WrapError(nil, pagearc.ENOTFOUND,
					"not found", map[string]any{"status": 404})
			},
		}

		_, _, err := a.ArchivePage(context.Background(), "https://example.com/missing")

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, true, pagearc.ErrorContext(err)["nonRetryable"])
	})

	t.Run("skips pages whose content is unchanged", func(t *testing.T) {
		t.Parallel()

		a := newArchiver()
		wrote := false
		a.Writer = &mock.DocumentWriter{
			WriteDocumentFn: func(ctx context.Context, doc *pagearc.Document) error {
				wrote = true
				return nil
			},
		}

		// First run records the hash the second run will find.
		var hash string
		a.Manifest = &mock.ManifestService{
			FindDocumentByURLFn: func(ctx context.Context, sourceURL string) (*pagearc.Document, error) {
				if hash == "" {
					return nil, pagearc.Errorf(pagearc.ENOTFOUND, "document not found")
				}
				return &pagearc.Document{
					ID:          "existing-id",
					SourceURL:   sourceURL,
					ContentHash: hash,
					FilePath:    "page.md",
				}, nil
			},
			RecordDocumentFn: func(ctx context.Context, doc *pagearc.Document) error {
				hash = doc.ContentHash
				return nil
			},
		}

		_, status, err := a.ArchivePage(context.Background(), "https://example.com/page")
		require.NoError(t, err)
		require.Equal(t, archive.StatusSaved, status)

		wrote = false
		doc, status, err := a.ArchivePage(context.Background(), "https://example.com/page")
		require.NoError(t, err)
		assert.Equal(t, archive.StatusUnchanged, status)
		assert.False(t, wrote, "unchanged pages are not rewritten")
		assert.Equal(t, "existing-id", doc.ID)
		assert.Equal(t, "page.md", doc.FilePath)
	})

	t.Run("reports existing files when overwriting is disabled", func(t *testing.T) {
		t.Parallel()

		a := newArchiver()
		a.Writer = &mock.DocumentWriter{
			WriteDocumentFn: func(ctx context.Context, doc *pagearc.Document) error {
				return pagearc.Errorf(pagearc.EEXISTS, "file already exists")
			},
		}

		_, status, err := a.ArchivePage(context.Background(), "https://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, archive.StatusExists, status)
	})

	t.Run("conversion failure is permanent", func(t *testing.T) {
		t.Parallel()

		calls := 0
		a := newArchiver()
		a.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				calls++
				return "", pagearc.Errorf(pagearc.EPARSE, "broken markup")
			},
		}

		_, _, err := a.ArchivePage(context.Background(), "https://example.com/page")

		require.Error(t, err)
		assert.Equal(t, pagearc.EPARSE, pagearc.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})
}

func TestArchiver_ArchiveAll(t *testing.T) {
	t.Parallel()

	t.Run("archives URLs sequentially and aggregates results", func(t *testing.T) {
		t.Parallel()

		var order []string
		a := newArchiver()
		a.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				order = append(order, url)
				if strings.HasSuffix(url, "/bad") {
					return "", pagearc.WrapError(nil, pagearc.ENOTFOUND,
						"not found", map[string]any{"status": 404})
				}
				return "<html></html>", nil
			},
		}

		urls := []string{
			"https://example.com/a",
			"https://example.com/bad",
			"https://example.com/b",
		}

		var events []archive.ProgressType
		result, err := a.ArchiveAll(context.Background(), urls, func(e archive.ProgressEvent) {
			events = append(events, e.Type)
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 0, result.Skipped)
		assert.Positive(t, result.Bytes)

		assert.Equal(t, urls, order, "URLs are processed in order")
		assert.Equal(t, []archive.ProgressType{
			archive.ProgressStarted,
			archive.ProgressCompleted,
			archive.ProgressFailed,
			archive.ProgressCompleted,
			archive.ProgressFinished,
		}, events)
	})

	t.Run("seen filter deduplicates batch URLs", func(t *testing.T) {
		t.Parallel()

		fetches := 0
		a := newArchiver()
		a.Seen = bloom.NewDefaultFilter()
		a.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				fetches++
				return "<html></html>", nil
			},
		}

		urls := []string{
			"https://example.com/a",
			"https://example.com/a#section",
			"https://example.com/a/",
		}

		result, err := a.ArchiveAll(context.Background(), urls, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, fetches, "equivalent URLs are fetched once")
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 2, result.Skipped)
	})

	t.Run("stops early on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetches := 0
		a := newArchiver()
		a.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				fetches++
				cancel()
				return "<html></html>", nil
			},
		}

		urls := []string{"https://example.com/a", "https://example.com/b"}
		result, err := a.ArchiveAll(ctx, urls, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, fetches)
		assert.Equal(t, 1, result.Saved)
	})
}
