// Package normalize implements the content-normalization pipeline that turns
// baseline markdown into clean archival markdown: navigation chrome removed,
// one deduplicated table of contents, residual markup stripped, whitespace
// collapsed.
package normalize

import "github.com/pagearc/pagearc"

// Ensure Normalizer implements pagearc.Normalizer at compile time.
var _ pagearc.Normalizer = (*Normalizer)(nil)

// pass is one text-rewrite step. Passes are pure text → text functions; they
// own no state between invocations.
type pass struct {
	name string
	// markupOnly passes run only when ConvertEmbeddedMarkup is set.
	markupOnly bool
	fn         func(string) string
}

// Normalizer runs a fixed ordered sequence of rewrite passes over baseline
// text. The order is load-bearing: markup stripping precedes chrome removal
// because the chrome heuristics key on plain-text keyword co-occurrence, not
// raw tags, and whitespace collapse runs last to clean up after every other
// pass. TOC dedup runs before chrome removal so a block that is both
// TOC-shaped and menu-shaped is resolved by the TOC pass.
type Normalizer struct {
	detector *Detector
	passes   []pass
}

// New creates a Normalizer using the given chrome-detection rule tables.
func New(rules Rules) *Normalizer {
	n := &Normalizer{detector: NewDetector(rules)}
	n.passes = []pass{
		{name: "header-nav-strip", fn: stripHeaderNav},
		{name: "toc-dedup", fn: dedupeTOC},
		{name: "definition-lists", markupOnly: true, fn: normalizeDefinitionLists},
		{name: "residual-markup", markupOnly: true, fn: stripResidualMarkup},
		{name: "chrome-removal", fn: n.detector.RemoveChrome},
		{name: "whitespace", fn: normalizeWhitespace},
	}
	return n
}

// Default creates a Normalizer with the built-in rule tables.
func Default() *Normalizer {
	return New(DefaultRules())
}

// Normalize runs the pipeline over text. It never fails: lines that match no
// rule pass through untouched, since a missed chrome line is preferred over
// corrupted content.
func (n *Normalizer) Normalize(text string, opts pagearc.NormalizeOptions) string {
	for _, p := range n.passes {
		if p.markupOnly && !opts.ConvertEmbeddedMarkup {
			continue
		}
		text = p.fn(text)
	}
	return text
}

// Detector exposes the navigation detector for callers that only need
// chrome removal.
func (n *Normalizer) Detector() *Detector {
	return n.detector
}
