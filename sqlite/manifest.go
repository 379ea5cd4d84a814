package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pagearc/pagearc"
)

// Compile-time interface verification.
var _ pagearc.ManifestService = (*ManifestService)(nil)

// ManifestService implements pagearc.ManifestService using SQLite.
type ManifestService struct {
	db *DB
}

// NewManifestService creates a new ManifestService.
func NewManifestService(db *DB) *ManifestService {
	return &ManifestService{db: db}
}

// HashContent computes the xxHash of content as a hex string. It is the
// hash recorded in the manifest and used to detect unchanged pages.
func HashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// RecordDocument inserts or updates the manifest entry for doc's source URL.
// Missing ID, ContentHash, and FetchedAt fields are filled in.
func (s *ManifestService) RecordDocument(ctx context.Context, doc *pagearc.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.ContentHash == "" {
		doc.ContentHash = HashContent(doc.Content)
	}
	if doc.FetchedAt.IsZero() {
		doc.FetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_url, title, file_path, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			title = excluded.title,
			file_path = excluded.file_path,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, doc.ID, doc.SourceURL, doc.Title, doc.FilePath, doc.ContentHash,
		doc.FetchedAt.Format(time.RFC3339))

	return err
}

// FindDocumentByURL retrieves the manifest entry for a source URL. The
// returned document carries metadata only; content lives on disk.
func (s *ManifestService) FindDocumentByURL(ctx context.Context, sourceURL string) (*pagearc.Document, error) {
	var doc pagearc.Document
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, title, file_path, content_hash, fetched_at
		FROM documents
		WHERE source_url = ?
	`, sourceURL).Scan(&doc.ID, &doc.SourceURL, &doc.Title, &doc.FilePath,
		&doc.ContentHash, &fetchedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pagearc.Errorf(pagearc.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	doc.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
	}

	return &doc, nil
}

// ListDocuments returns all manifest entries, most recently fetched first.
func (s *ManifestService) ListDocuments(ctx context.Context) ([]*pagearc.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_url, title, file_path, content_hash, fetched_at
		FROM documents
		ORDER BY fetched_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*pagearc.Document
	for rows.Next() {
		var doc pagearc.Document
		var fetchedAt string

		if err := rows.Scan(&doc.ID, &doc.SourceURL, &doc.Title, &doc.FilePath,
			&doc.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		doc.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}
