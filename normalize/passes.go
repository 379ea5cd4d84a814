package normalize

import (
	"regexp"
	"strings"
)

// Pass 1: header/brand navigation strip.
//
// Rendered pages commonly open with a logo image wrapped in a link back to
// the site root, sometimes followed by standalone branding images. These
// survive conversion as the document's first lines and carry no content.
var (
	// [![alt](img)](/) or [![alt](img)](https://host/) — image wrapped in
	// a link pointing at a root target.
	brandLinkRe = regexp.MustCompile(`^\s*\[!\[[^\]]*\]\([^)]*\)\]\((?:/|#|[a-z][a-z0-9+.-]*://[^/)]+/?)\)\s*$`)

	// <a href="/"><img ...></a> — the same shape in residual raw markup.
	brandLinkHTMLRe = regexp.MustCompile(`(?i)^\s*<a\s[^>]*href="(?:/|#|[a-z][a-z0-9+.-]*://[^/"]+/?)"[^>]*>\s*<img[^>]*>\s*</a>\s*$`)

	// ![logo](img) — a standalone branding image.
	brandImageRe = regexp.MustCompile(`(?i)^\s*!\[[^\]]*(?:logo|brand|banner)[^\]]*\]\([^)]*\)\s*$`)
)

// stripHeaderNav drops leading logo-link and branding-image lines. The strip
// stops at the first line that is neither blank nor brand-shaped; matching
// lines deeper in the document are left for the chrome pass to judge.
func stripHeaderNav(text string) string {
	lines := strings.Split(text, "\n")

	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}
		if brandLinkRe.MatchString(line) || brandLinkHTMLRe.MatchString(line) || brandImageRe.MatchString(line) {
			lines = append(lines[:i], lines[i+1:]...)
			continue
		}
		break
	}

	return strings.Join(lines, "\n")
}

// Pass 2: TOC deduplication.
//
// Machine-rendered pages often repeat the in-page table of contents: once in
// a sidebar, once inline, sometimes again in a footer. After conversion all
// copies look the same, so the first plausible block is kept verbatim in
// place and every later TOC-shaped block is deleted whole. Partial retention
// is never attempted; splitting a navigation block risks leaving orphaned
// fragments that read as content.

// tocItemRe matches one TOC item: optional leading dashes or indent, a dash,
// link text, and a local anchor target.
var tocItemRe = regexp.MustCompile(`^[\t -]*-\s*\[[^\]]+\]\(#[^)]*\)\s*$`)

// TOC blocks qualify for retention only when their item count is in this
// open interval. Fewer items is more likely a stray pair of anchor links;
// more is a site-wide index rather than an in-page TOC.
const (
	tocMinItems = 2  // exclusive
	tocMaxItems = 30 // exclusive
)

// tocBlock is a contiguous run of TOC-item lines, identified by half-open
// line range. It exists only during the dedup pass.
type tocBlock struct {
	start, end int
}

func (b tocBlock) items() int { return b.end - b.start }

// findTOCBlocks returns all contiguous TOC-item runs in order.
func findTOCBlocks(lines []string) []tocBlock {
	var blocks []tocBlock
	i := 0
	for i < len(lines) {
		if !tocItemRe.MatchString(lines[i]) {
			i++
			continue
		}
		start := i
		for i < len(lines) && tocItemRe.MatchString(lines[i]) {
			i++
		}
		blocks = append(blocks, tocBlock{start: start, end: i})
	}
	return blocks
}

// dedupeTOC retains the first TOC block whose item count is greater than
// tocMinItems and less than tocMaxItems, and deletes every TOC-shaped block
// after it in full. Blocks before the retained one (too small or too large
// to qualify) are left untouched.
func dedupeTOC(text string) string {
	lines := strings.Split(text, "\n")
	blocks := findTOCBlocks(lines)

	keeper := -1
	for i, b := range blocks {
		if b.items() > tocMinItems && b.items() < tocMaxItems {
			keeper = i
			break
		}
	}
	if keeper == -1 {
		return text
	}

	drop := make(map[int]bool)
	for _, b := range blocks[keeper+1:] {
		for line := b.start; line < b.end; line++ {
			drop[line] = true
		}
	}
	if len(drop) == 0 {
		return text
	}

	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if !drop[i] {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// Pass 3: definition-list normalization.
//
// Converters frequently leave definition lists as raw markup. Paired
// term/description fragments become a bold term line followed by a
// colon-prefixed description line, matching how hand-written markdown
// renders definition lists.
var (
	dtDdPairRe  = regexp.MustCompile(`(?is)<dt[^>]*>(.*?)</dt>\s*<dd[^>]*>(.*?)</dd>`)
	dtSingleRe  = regexp.MustCompile(`(?is)<dt[^>]*>(.*?)</dt>`)
	ddSingleRe  = regexp.MustCompile(`(?is)<dd[^>]*>(.*?)</dd>`)
	dlWrapperRe = regexp.MustCompile(`(?i)</?dl[^>]*>`)
)

func normalizeDefinitionLists(text string) string {
	text = dtDdPairRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := dtDdPairRe.FindStringSubmatch(match)
		term := strings.TrimSpace(parts[1])
		desc := strings.TrimSpace(parts[2])
		return "**" + term + "**\n: " + desc
	})

	// Unpaired single tags, left over from irregular markup.
	text = dtSingleRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := dtSingleRe.FindStringSubmatch(match)
		return "**" + strings.TrimSpace(parts[1]) + "**"
	})
	text = ddSingleRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := ddSingleRe.FindStringSubmatch(match)
		return ": " + strings.TrimSpace(parts[1])
	})

	// Wrapper tags are empty now.
	return dlWrapperRe.ReplaceAllString(text, "")
}

// Pass 4: residual markup stripping.
//
// Three stages: denylisted elements go with their entire content, void
// elements go as bare tags, and any remaining tag outside the allowlist is
// unwrapped (tag markers removed, inner content kept).
// denylistElements are removed including nested content. nav-link is the
// generic wrapper custom element some frameworks emit around menu anchors.
var denylistElements = []string{"script", "style", "nav", "footer", "header", "aside", "nav-link"}

var denylistElementRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(denylistElements))
	for i, el := range denylistElements {
		res[i] = regexp.MustCompile(`(?is)<` + el + `\b[^>]*>.*?</\s*` + el + `\s*>`)
	}
	return res
}()

var (
	// Void and interactive elements removed as tags.
	voidElementRe       = regexp.MustCompile(`(?i)<(?:img|br|hr|input)\b[^>]*/?>`)
	buttonElementRe     = regexp.MustCompile(`(?is)<button\b[^>]*>.*?</\s*button\s*>`)
	remainingTagRe      = regexp.MustCompile(`(?s)</?([a-zA-Z][a-zA-Z0-9-]*)\b[^>]*>`)
	allowedInlineTagSet = map[string]bool{
		"a": true, "blockquote": true, "code": true, "div": true,
		"em": true, "h1": true, "h2": true, "h3": true, "h4": true,
		"h5": true, "h6": true, "kbd": true, "li": true, "ol": true,
		"p": true, "pre": true, "samp": true, "span": true,
		"strong": true, "ul": true,
	}
)

func stripResidualMarkup(text string) string {
	for _, re := range denylistElementRes {
		text = re.ReplaceAllString(text, "")
	}
	text = buttonElementRe.ReplaceAllString(text, "")
	text = voidElementRe.ReplaceAllString(text, "")

	return remainingTagRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := remainingTagRe.FindStringSubmatch(match)
		if allowedInlineTagSet[strings.ToLower(parts[1])] {
			return match
		}
		return ""
	})
}

// Pass 6: whitespace normalization. Runs last so it cleans up the gaps left
// by every earlier pass.
var blankRunRe = regexp.MustCompile(`\n{4,}`)

// collapseBlankLines reduces runs of 3 or more consecutive blank lines to
// exactly one blank line. Runs of one or two blanks are intentional spacing
// and stay as they are.
func collapseBlankLines(text string) string {
	return blankRunRe.ReplaceAllString(text, "\n\n")
}

// normalizeWhitespace strips trailing whitespace from every line and
// collapses excess blank runs.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return collapseBlankLines(strings.Join(lines, "\n"))
}
