// Package goquery extracts page metadata from raw HTML.
// It only reads metadata; content extraction stays out of scope because the
// normalization pipeline operates on flat converted text, never on the DOM.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagearc/pagearc"
)

// Ensure TitleExtractor implements pagearc.TitleExtractor at compile time.
var _ pagearc.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor pulls the page title from HTML metadata, preferring
// OpenGraph tags over the title element. Site-name suffixes separated by
// common delimiters are trimmed from title elements.
type TitleExtractor struct{}

// NewTitleExtractor creates a TitleExtractor.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{}
}

// titleSeparators are delimiters sites use to append their name to the
// document title, e.g. "Getting Started | Acme Docs".
var titleSeparators = []string{" | ", " — ", " – ", " :: "}

// Title returns the page title, or the empty string when the HTML carries
// none. It never fails: unparseable input simply yields no title.
func (e *TitleExtractor) Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	for _, sep := range titleSeparators {
		if idx := strings.Index(title, sep); idx > 0 {
			title = strings.TrimSpace(title[:idx])
			break
		}
	}
	return title
}
