// Package mock provides function-field mock implementations of the
// pagearc service interfaces for use in tests.
package mock

import (
	"context"

	"github.com/pagearc/pagearc"
)

var _ pagearc.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagearc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ pagearc.URLSource = (*URLSource)(nil)

// URLSource is a mock implementation of pagearc.URLSource.
type URLSource struct {
	DiscoverFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *URLSource) Discover(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverFn(ctx, baseURL)
}

var _ pagearc.Converter = (*Converter)(nil)

// Converter is a mock implementation of pagearc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ pagearc.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor is a mock implementation of pagearc.TitleExtractor.
type TitleExtractor struct {
	TitleFn func(html string) string
}

func (e *TitleExtractor) Title(html string) string {
	return e.TitleFn(html)
}

var _ pagearc.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of pagearc.Normalizer.
type Normalizer struct {
	NormalizeFn func(text string, opts pagearc.NormalizeOptions) string
}

func (n *Normalizer) Normalize(text string, opts pagearc.NormalizeOptions) string {
	return n.NormalizeFn(text, opts)
}

var _ pagearc.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of pagearc.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *pagearc.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *pagearc.Document) error {
	return w.WriteDocumentFn(ctx, doc)
}

var _ pagearc.ManifestService = (*ManifestService)(nil)

// ManifestService is a mock implementation of pagearc.ManifestService.
type ManifestService struct {
	RecordDocumentFn    func(ctx context.Context, doc *pagearc.Document) error
	FindDocumentByURLFn func(ctx context.Context, sourceURL string) (*pagearc.Document, error)
	ListDocumentsFn     func(ctx context.Context) ([]*pagearc.Document, error)
}

func (s *ManifestService) RecordDocument(ctx context.Context, doc *pagearc.Document) error {
	return s.RecordDocumentFn(ctx, doc)
}

func (s *ManifestService) FindDocumentByURL(ctx context.Context, sourceURL string) (*pagearc.Document, error) {
	return s.FindDocumentByURLFn(ctx, sourceURL)
}

func (s *ManifestService) ListDocuments(ctx context.Context) ([]*pagearc.Document, error) {
	return s.ListDocumentsFn(ctx)
}
