package normalize

import (
	"os"
	"strings"

	"github.com/pagearc/pagearc"
	"gopkg.in/yaml.v3"
)

// MenuShapeRule decides whether a run of list lines looks like a navigation
// menu. The rule matches against the lowercased concatenation of the
// lookahead window. All keywords in All must co-occur; alternatively any
// keyword in Any suffices.
type MenuShapeRule struct {
	Name string   `yaml:"name"`
	All  []string `yaml:"all,omitempty"`
	Any  []string `yaml:"any,omitempty"`
}

// Match reports whether the rule matches the lowercased window text.
func (r MenuShapeRule) Match(window string) bool {
	if len(r.All) > 0 {
		for _, kw := range r.All {
			if !strings.Contains(window, kw) {
				return false
			}
		}
		return true
	}
	for _, kw := range r.Any {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}

// Rules holds the chrome-detection tables used by the navigation detector.
// They are data, not control flow: the scanner's transitions stay fixed while
// the tables evolve. Rules can be loaded from a YAML file so deployments can
// tune them per site without a rebuild.
type Rules struct {
	// ChromePhrases drop a line unconditionally when its lowercased
	// content contains any of them, regardless of scanner state.
	ChromePhrases []string `yaml:"chrome_phrases"`

	// SectionHeaders are bare single-word headers that open a menu
	// section, compared against the trimmed lowercased line.
	SectionHeaders []string `yaml:"section_headers"`

	// MenuShapes classify a run of list lines as a menu, evaluated in
	// order against the lookahead window.
	MenuShapes []MenuShapeRule `yaml:"menu_shapes"`

	// LookaheadLines bounds the window inspected for menu shapes,
	// inclusive of the current line.
	LookaheadLines int `yaml:"lookahead_lines"`
}

// DefaultRules returns the built-in chrome-detection tables.
func DefaultRules() Rules {
	return Rules{
		ChromePhrases: []string{
			"accept all cookies",
			"we use cookies",
			"cookie settings",
			"cookie policy",
			"skip to content",
			"skip to main content",
			"skip to navigation",
			"learn more",
			"close menu",
			"open menu",
			"close dialog",
			"toggle navigation",
			"your privacy choices",
		},
		SectionHeaders: []string{
			"menu",
			"apps",
			"list",
			"navigation",
			"more",
			"links",
		},
		MenuShapes: []MenuShapeRule{
			{
				Name: "logo-with-navigation",
				All:  []string{"logo", "navigate to"},
			},
			{
				Name: "ui-chrome-terms",
				Any: []string{
					"toggle navigation",
					"open menu",
					"main menu",
					"site navigation",
					"skip to content",
					"breadcrumb",
					"sign in",
					"log in",
				},
			},
		},
		LookaheadLines: 20,
	}
}

// LoadRules reads rule tables from a YAML file. Fields omitted in the file
// fall back to the defaults, so a file can override just one table.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, pagearc.WrapError(err, pagearc.EINVALID, "reading rules file", nil)
	}
	return ParseRules(data)
}

// ParseRules parses YAML rule tables, filling omitted fields from defaults.
func ParseRules(data []byte) (Rules, error) {
	rules := Rules{}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, pagearc.WrapError(err, pagearc.EINVALID, "parsing rules file", nil)
	}

	defaults := DefaultRules()
	if rules.ChromePhrases == nil {
		rules.ChromePhrases = defaults.ChromePhrases
	}
	if rules.SectionHeaders == nil {
		rules.SectionHeaders = defaults.SectionHeaders
	}
	if rules.MenuShapes == nil {
		rules.MenuShapes = defaults.MenuShapes
	}
	if rules.LookaheadLines <= 0 {
		rules.LookaheadLines = defaults.LookaheadLines
	}
	return rules, nil
}
