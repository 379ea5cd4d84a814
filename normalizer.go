package pagearc

// NormalizeOptions controls the content normalization pipeline.
type NormalizeOptions struct {
	// PreserveBreadcrumbs keeps breadcrumb trails that would otherwise be
	// treated as chrome. Currently unused downstream; reserved.
	PreserveBreadcrumbs bool

	// ConvertEmbeddedMarkup enables the passes that rewrite or strip raw
	// markup fragments left behind by conversion.
	ConvertEmbeddedMarkup bool
}

// DefaultNormalizeOptions returns the options used when none are supplied.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{ConvertEmbeddedMarkup: true}
}

// Normalizer rewrites baseline markdown into clean archival markdown:
// navigation chrome removed, one deduplicated table of contents, residual
// markup stripped, whitespace collapsed.
//
// Normalizers never fail on malformed input; text that matches no rule is
// passed through untouched. A missed chrome line is preferred over
// corrupted content.
type Normalizer interface {
	Normalize(text string, opts NormalizeOptions) string
}
