// Package fs writes archived documents as markdown files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pagearc/pagearc"
)

// URLToPath converts a page URL to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", pagearc.WrapError(err, pagearc.EINVALID, "invalid source URL", nil)
	}

	path := u.Path

	// Root or trailing slash becomes index.md.
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	return path + ".md", nil
}

// FormatDocument formats a document with YAML frontmatter.
func FormatDocument(doc *pagearc.Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(doc.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(doc.Title)
	b.WriteString("\narchived: ")
	b.WriteString(doc.FetchedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(doc.Content)
	return b.String()
}

// Ensure Writer implements pagearc.DocumentWriter at compile time.
var _ pagearc.DocumentWriter = (*Writer)(nil)

// Writer writes documents as markdown files under a base directory.
// The base directory is an explicit value; nothing here reads ambient
// process state, so writers for different output locations can coexist.
type Writer struct {
	baseDir   string
	overwrite bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithOverwrite allows replacing existing files. Off by default: archiving
// over an existing file is reported as EEXISTS so runs are safe to repeat.
func WithOverwrite(enabled bool) Option {
	return func(w *Writer) { w.overwrite = enabled }
}

// NewWriter creates a Writer that writes under baseDir.
func NewWriter(baseDir string, opts ...Option) *Writer {
	w := &Writer{baseDir: baseDir}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteDocument writes a document to disk as a markdown file and records the
// relative path in doc.FilePath.
func (w *Writer) WriteDocument(ctx context.Context, doc *pagearc.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(doc.SourceURL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, relPath)

	if !w.overwrite {
		if _, err := os.Stat(fullPath); err == nil {
			return pagearc.WrapError(nil, pagearc.EEXISTS,
				"file already exists: "+relPath,
				map[string]any{"path": fullPath, "nonRetryable": true})
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return pagearc.WrapError(err, pagearc.EINTERNAL, "creating output directory", nil)
	}

	if err := os.WriteFile(fullPath, []byte(FormatDocument(doc)), 0644); err != nil {
		return pagearc.WrapError(err, pagearc.EINTERNAL, "writing document", map[string]any{"path": fullPath})
	}

	doc.FilePath = relPath
	return nil
}
