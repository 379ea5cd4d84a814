package normalize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pagearc/pagearc"
	"github.com/pagearc/pagearc/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuShapeRule(t *testing.T) {
	t.Parallel()

	t.Run("all requires every keyword", func(t *testing.T) {
		t.Parallel()

		rule := normalize.MenuShapeRule{Name: "pair", All: []string{"logo", "navigate to"}}

		assert.True(t, rule.Match("the logo links navigate to home"))
		assert.False(t, rule.Match("the logo links point home"))
	})

	t.Run("any requires one keyword", func(t *testing.T) {
		t.Parallel()

		rule := normalize.MenuShapeRule{Name: "terms", Any: []string{"main menu", "breadcrumb"}}

		assert.True(t, rule.Match("open the main menu here"))
		assert.False(t, rule.Match("nothing navigational"))
	})

	t.Run("all takes precedence when both are set", func(t *testing.T) {
		t.Parallel()

		rule := normalize.MenuShapeRule{All: []string{"logo"}, Any: []string{"unrelated"}}

		assert.True(t, rule.Match("a logo"))
		assert.False(t, rule.Match("unrelated"))
	})
}

func TestParseRules(t *testing.T) {
	t.Parallel()

	t.Run("partial file overrides one table and keeps defaults", func(t *testing.T) {
		t.Parallel()

		data := []byte("chrome_phrases:\n  - \"custom banner text\"\n")

		rules, err := normalize.ParseRules(data)

		require.NoError(t, err)
		assert.Equal(t, []string{"custom banner text"}, rules.ChromePhrases)
		assert.Equal(t, normalize.DefaultRules().SectionHeaders, rules.SectionHeaders)
		assert.Equal(t, normalize.DefaultRules().LookaheadLines, rules.LookaheadLines)
	})

	t.Run("full menu shape rules parse", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
menu_shapes:
  - name: custom
    all: ["alpha", "beta"]
  - name: loose
    any: ["gamma"]
lookahead_lines: 10
`)

		rules, err := normalize.ParseRules(data)

		require.NoError(t, err)
		require.Len(t, rules.MenuShapes, 2)
		assert.Equal(t, "custom", rules.MenuShapes[0].Name)
		assert.Equal(t, []string{"alpha", "beta"}, rules.MenuShapes[0].All)
		assert.Equal(t, 10, rules.LookaheadLines)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := normalize.ParseRules([]byte("chrome_phrases: {not a list"))

		require.Error(t, err)
		assert.Equal(t, pagearc.EINVALID, pagearc.ErrorCode(err))
	})
}

func TestLoadRules(t *testing.T) {
	t.Parallel()

	t.Run("loads from file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("section_headers: [\"sidebar\"]\n"), 0644))

		rules, err := normalize.LoadRules(path)

		require.NoError(t, err)
		assert.Equal(t, []string{"sidebar"}, rules.SectionHeaders)
	})

	t.Run("missing file is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := normalize.LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))

		require.Error(t, err)
		assert.Equal(t, pagearc.EINVALID, pagearc.ErrorCode(err))
	})
}
