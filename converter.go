package pagearc

// Converter converts HTML to baseline Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The output may still contain residual raw-markup fragments;
	// the Normalizer is responsible for cleaning those up.
	Convert(html string) (string, error)
}

// TitleExtractor pulls a page title from raw HTML metadata.
// It only reads metadata (title element, OpenGraph tags); it never
// extracts or rewrites page content.
type TitleExtractor interface {
	Title(html string) string
}
