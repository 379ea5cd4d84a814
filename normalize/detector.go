package normalize

import (
	"regexp"
	"strings"
)

// State is the navigation detector's scanner state.
type State int

// Scanner states. The scan starts and ends in StateNormal; there is no
// explicit terminal transition, the scan simply runs out of lines.
const (
	StateNormal State = iota
	StateMenuList
	StateMenuSection
)

// String returns the state name for test output.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateMenuList:
		return "IN_MENU_LIST"
	case StateMenuSection:
		return "IN_MENU_SECTION"
	}
	return "UNKNOWN"
}

// Standalone chrome line patterns, dropped unconditionally outside menu runs.
var (
	// A logo image wrapped in a link: [![alt](img)](target).
	logoImageLinkRe = regexp.MustCompile(`^\s*\[!\[[^\]]*\]\([^)]*\)\]\([^)]*\)\s*$`)

	// An empty link to a local anchor: [](#target) or [ ](#target).
	emptyAnchorLinkRe = regexp.MustCompile(`^\s*\[\s*\]\(#[^)]*\)\s*$`)

	// A scroll-to-top icon link, e.g. [↑](#top) or [back to top](#).
	scrollTopLinkRe = regexp.MustCompile(`(?i)^\s*\[(?:\^|↑|⬆|top|back to top|scroll to top)\]\(#[^)]*\)\s*$`)

	// A numbered navigation item, e.g. "1. [Home](/home)" with an optional
	// trailing icon glyph token.
	numberedNavItemRe = regexp.MustCompile(`^\s*\d+\.\s+\[[^\]]+\]\([^)]*\)\s*\S{0,3}\s*$`)

	// List markers that open menu-shaped runs.
	listMarkerRe = regexp.MustCompile(`^\s*[-*+]\s`)
)

// Detector drops chrome-shaped line runs from flat text using a single
// left-to-right scan with three explicit states.
//
// The upstream conversion discards markup structure before this stage, so
// chrome cannot be identified by tag semantics; detection keys on local text
// shape instead: list density, phrase co-occurrence, and bare section-header
// words. The heuristics trade recall for precision on ambiguous runs — a
// missed menu is acceptable, deleted content is not.
type Detector struct {
	rules Rules
}

// NewDetector creates a Detector using the given rule tables.
func NewDetector(rules Rules) *Detector {
	if rules.LookaheadLines <= 0 {
		rules.LookaheadLines = DefaultRules().LookaheadLines
	}
	return &Detector{rules: rules}
}

// RemoveChrome scans text line by line and drops recognized chrome runs.
// Retained lines are rejoined, runs of 3+ blank lines collapse to one, and
// the result is trimmed of leading and trailing blank space.
func (d *Detector) RemoveChrome(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	state := StateNormal
	for i, line := range lines {
		window := lines[i:min(i+d.rules.LookaheadLines, len(lines))]
		next, keep := d.Transition(state, line, window)
		state = next
		if keep {
			kept = append(kept, line)
		}
	}

	result := strings.Join(kept, "\n")
	result = collapseBlankLines(result)
	return strings.TrimSpace(result)
}

// Transition applies the per-line rules to one line and returns the next
// state and whether the line is retained. The window is the slice of
// upcoming lines starting at (and including) the current one; only its
// leading LookaheadLines entries are ever inspected.
//
// Rules are evaluated in a fixed order at every line regardless of state:
// unconditional phrase drops first, then state-specific handling.
func (d *Detector) Transition(state State, line string, window []string) (State, bool) {
	// Boilerplate chrome phrases drop the line no matter the state.
	if d.containsChromePhrase(line) {
		return state, false
	}

	switch state {
	case StateMenuList:
		if isListMarkerLine(line) {
			return StateMenuList, false
		}
		if strings.TrimSpace(line) == "" {
			return StateMenuList, false
		}
		// First non-empty, non-list line ends the run and is processed
		// under the NORMAL rules in the same pass, not dropped outright.
		return d.Transition(StateNormal, line, window)

	case StateMenuSection:
		if strings.TrimSpace(line) == "" && !nextLineIsListItem(window) {
			return StateNormal, false
		}
		return StateMenuSection, false

	default: // StateNormal
		if d.isSectionHeader(line) {
			return StateMenuSection, false
		}

		if isListMarkerLine(line) && nextLineIsListItem(window) {
			if d.matchesMenuShape(window) {
				return StateMenuList, false
			}
		}

		if isStandaloneChromeLine(line) {
			return StateNormal, false
		}

		return StateNormal, true
	}
}

// containsChromePhrase reports whether the lowercased line contains any
// boilerplate chrome phrase.
func (d *Detector) containsChromePhrase(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range d.rules.ChromePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// isSectionHeader reports whether the line is a bare menu section header
// such as "Menu", "## Apps", or "List:".
func (d *Detector) isSectionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "#")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), ":")
	trimmed = strings.ToLower(strings.TrimSpace(trimmed))
	if trimmed == "" {
		return false
	}
	for _, header := range d.rules.SectionHeaders {
		if trimmed == header {
			return true
		}
	}
	return false
}

// matchesMenuShape checks the lookahead window against the menu shape rules.
func (d *Detector) matchesMenuShape(window []string) bool {
	n := min(len(window), d.rules.LookaheadLines)
	joined := strings.ToLower(strings.Join(window[:n], " "))
	for _, rule := range d.rules.MenuShapes {
		if rule.Match(joined) {
			return true
		}
	}
	return false
}

// isStandaloneChromeLine matches single lines dropped outside menu runs:
// logo image-links, empty self-referencing anchors, scroll-to-top icons, and
// numbered navigation items.
func isStandaloneChromeLine(line string) bool {
	return logoImageLinkRe.MatchString(line) ||
		emptyAnchorLinkRe.MatchString(line) ||
		scrollTopLinkRe.MatchString(line) ||
		numberedNavItemRe.MatchString(line)
}

func isListMarkerLine(line string) bool {
	return listMarkerRe.MatchString(line)
}

// nextLineIsListItem reports whether the line after the current one (the
// second entry of the window) starts with a list marker.
func nextLineIsListItem(window []string) bool {
	return len(window) > 1 && isListMarkerLine(window[1])
}
