package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagearc/pagearc"
)

// Ensure LoggingWriter implements pagearc.DocumentWriter.
var _ pagearc.DocumentWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps a DocumentWriter with structured logging of every write.
type LoggingWriter struct {
	next   pagearc.DocumentWriter
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter.
func NewLoggingWriter(next pagearc.DocumentWriter, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, logger: logger}
}

// WriteDocument delegates to the wrapped writer and logs the outcome.
// Existing-file refusals log at debug level since repeat runs hit them
// routinely.
func (w *LoggingWriter) WriteDocument(ctx context.Context, doc *pagearc.Document) error {
	begin := time.Now()
	err := w.next.WriteDocument(ctx, doc)
	if err != nil {
		if pagearc.ErrorCode(err) == pagearc.EEXISTS {
			w.logger.Debug("write skipped",
				"url", doc.SourceURL,
				"err", err,
			)
		} else {
			w.logger.Error("write",
				"url", doc.SourceURL,
				"code", pagearc.ErrorCode(err),
				"err", err,
			)
		}
		return err
	}
	w.logger.Info("write",
		"url", doc.SourceURL,
		"path", doc.FilePath,
		"bytes", len(doc.Content),
		"duration", time.Since(begin),
	)
	return nil
}
