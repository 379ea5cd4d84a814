// Package bloom provides a seen-URL filter for batch archive runs.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Sizing defaults for a typical documentation site run.
const (
	DefaultCapacity = 10000
	DefaultFPRate   = 0.01
)

// Filter tracks URLs already dispatched during a batch run so discovery
// never queues the same page twice. False positives are possible, which
// at worst skips a page; false negatives are not.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewDefaultFilter creates a filter with default sizing.
func NewDefaultFilter() *Filter {
	return NewFilter(DefaultCapacity, DefaultFPRate)
}

// canonicalURL normalizes a URL for dedup purposes: fragments never name
// distinct pages, and a trailing slash is the same page as none.
func canonicalURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String()
}

// Seen reports whether the URL was already dispatched, and marks it as
// dispatched if it wasn't. Equivalent URLs differing only in fragment or
// trailing slash count as the same page.
func (f *Filter) Seen(rawURL string) bool {
	return f.f.TestAndAddString(canonicalURL(rawURL))
}

// Test reports whether the URL might already be dispatched without
// marking it.
func (f *Filter) Test(rawURL string) bool {
	return f.f.TestString(canonicalURL(rawURL))
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
