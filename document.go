package pagearc

import (
	"context"
	"time"
)

// Document represents an archived page.
type Document struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	FilePath    string    `json:"filePath"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	if d.Content == "" {
		return Errorf(EINVALID, "document content required")
	}
	return nil
}

// DocumentWriter writes documents to storage.
type DocumentWriter interface {
	// WriteDocument persists the document and sets its FilePath.
	// Returns EEXISTS if the target already exists and overwriting
	// is disabled.
	WriteDocument(ctx context.Context, doc *Document) error
}

// ManifestService records which pages have been archived, keyed by source URL.
// It lets repeat runs skip pages whose content is unchanged.
type ManifestService interface {
	// RecordDocument inserts or updates the manifest entry for doc's URL.
	RecordDocument(ctx context.Context, doc *Document) error

	// FindDocumentByURL retrieves the manifest entry for a source URL.
	// Returns ENOTFOUND if the URL has not been archived.
	FindDocumentByURL(ctx context.Context, sourceURL string) (*Document, error)

	// ListDocuments returns all manifest entries ordered by fetch time.
	ListDocuments(ctx context.Context) ([]*Document, error)
}
