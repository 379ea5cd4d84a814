package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	main "github.com/pagearc/pagearc/cmd/pagearc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMain returns a Main with a temporary manifest database.
func newTestMain(t *testing.T) *main.Main {
	t.Helper()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "manifest.db")
	return m
}

// newDocsServer serves a small static documentation site with a sitemap.
func newDocsServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Sitemap: " + srv.URL + "/sitemap.xml\n"))
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	<url><loc>` + srv.URL + `/docs/intro</loc></url>
	<url><loc>` + srv.URL + `/docs/api</loc></url>
</urlset>`))
	})
	mux.HandleFunc("/docs/intro", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Intro | Docs</title></head><body><h1>Intro</h1><p>Welcome.</p></body></html>`))
	})
	mux.HandleFunc("/docs/api", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>API | Docs</title></head><body><h1>API</h1><p>Endpoints.</p></body></html>`))
	})

	return srv
}

func TestRun_Save(t *testing.T) {
	t.Parallel()

	t.Run("archives a single page", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t)
		outDir := t.TempDir()
		m := newTestMain(t)

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(),
			[]string{"save", srv.URL + "/docs/intro", "--plain", "-o", outDir},
			&stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Saved docs/intro.md")

		data, err := os.ReadFile(filepath.Join(outDir, "docs", "intro.md"))
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "title: Intro")
		assert.Contains(t, content, "# Intro")
		assert.Contains(t, content, "Welcome.")
	})

	t.Run("second run reports the page unchanged", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t)
		outDir := t.TempDir()
		m := newTestMain(t)
		args := []string{"save", srv.URL + "/docs/intro", "--plain", "-o", outDir}

		var stdout, stderr bytes.Buffer
		require.NoError(t, m.Run(context.Background(), args, &stdout, &stderr))

		stdout.Reset()
		m2 := main.NewMain()
		m2.DBPath = m.DBPath
		require.NoError(t, m2.Run(context.Background(), args, &stdout, &stderr))
		assert.Contains(t, stdout.String(), "Unchanged:")
	})

	t.Run("fails with a useful error for an unreachable page", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t)
		outDir := t.TempDir()
		m := newTestMain(t)

		var stdout, stderr bytes.Buffer
		err := m.Run(context.Background(),
			[]string{"save", srv.URL + "/missing", "--plain", "-o", outDir, "--attempts", "1"},
			&stdout, &stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestRun_Site(t *testing.T) {
	t.Parallel()

	srv := newDocsServer(t)
	outDir := t.TempDir()
	m := newTestMain(t)

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(),
		[]string{"site", srv.URL + "/docs/", "--plain", "-o", outDir, "--yes", "--rate", "100"},
		&stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Saved 2 pages")

	_, err = os.Stat(filepath.Join(outDir, "docs", "intro.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "docs", "api.md"))
	require.NoError(t, err)
}

func TestRun_List(t *testing.T) {
	t.Parallel()

	t.Run("empty manifest prints a hint", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)

		var stdout, stderr bytes.Buffer
		require.NoError(t, m.Run(context.Background(), []string{"list"}, &stdout, &stderr))
		assert.Contains(t, stdout.String(), "No pages archived yet")
	})

	t.Run("lists archived pages", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t)
		outDir := t.TempDir()
		m := newTestMain(t)

		var stdout, stderr bytes.Buffer
		require.NoError(t, m.Run(context.Background(),
			[]string{"save", srv.URL + "/docs/api", "--plain", "-o", outDir},
			&stdout, &stderr))

		stdout.Reset()
		m2 := main.NewMain()
		m2.DBPath = m.DBPath
		require.NoError(t, m2.Run(context.Background(), []string{"list"}, &stdout, &stderr))
		assert.Contains(t, stdout.String(), "docs/api.md")
		assert.Contains(t, stdout.String(), srv.URL+"/docs/api")
	})
}

func TestRun_NoCommand(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), nil, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "save")
	assert.Contains(t, stdout.String(), "site")
	assert.Contains(t, stdout.String(), "list")
}
