package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/manifoldco/promptui"
	"github.com/pagearc/pagearc"
	"github.com/pagearc/pagearc/archive"
	"github.com/pagearc/pagearc/bloom"
	"github.com/pagearc/pagearc/fs"
	"github.com/pagearc/pagearc/goquery"
	"github.com/pagearc/pagearc/htmltomarkdown"
	pagearchttp "github.com/pagearc/pagearc/http"
	"github.com/pagearc/pagearc/normalize"
	"github.com/pagearc/pagearc/retry"
	"github.com/pagearc/pagearc/rod"
	pagearcslog "github.com/pagearc/pagearc/slog"
	"github.com/pagearc/pagearc/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Manifest database path. Set before calling Run().
	DBPath string

	// SQLite database holding the archive manifest.
	DB *sqlite.DB

	// Manifest service for end-to-end testing.
	Manifest pagearc.ManifestService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagearc"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagearc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Debug || os.Getenv("PAGEARC_DEBUG") != "" {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PAGEARC_DB to use a different manifest path\n")
		return fmt.Errorf("failed to open manifest at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Manifest = sqlite.NewManifestService(m.DB)
	deps.DB = m.DB
	deps.Manifest = m.Manifest
	deps.Source = pagearchttp.NewSitemapSource(nil)

	// The archive pipeline is only wired for commands that fetch pages, so
	// "list" never launches a browser.
	if cmd == "save" || cmd == "site" {
		flags := cli.Save.ArchiveFlags
		if cmd == "site" {
			flags = cli.Site.ArchiveFlags
		}

		archiver, cleanup, err := m.buildArchiver(deps.Logger, flags, stderr)
		if err != nil {
			return err
		}
		defer cleanup()

		if cmd == "site" {
			archiver.Limiter = archive.NewDomainLimiter(cli.Site.Rate)
			archiver.Seen = bloom.NewDefaultFilter()
		}

		deps.Archiver = archiver
	}

	return kongCtx.Run(deps)
}

// resolveOutput returns the output directory, prompting when the flag was
// not given and the session is interactive. Falls back to the current
// directory when the prompt cannot run.
func resolveOutput(flags ArchiveFlags) string {
	if flags.Output != nil {
		return *flags.Output
	}
	prompt := promptui.Prompt{Label: "Output directory", Default: "."}
	dir, err := prompt.Run()
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// buildArchiver wires the fetch-convert-normalize-write pipeline from the
// shared command flags. The returned cleanup closes the fetcher.
func (m *Main) buildArchiver(logger *slog.Logger, flags ArchiveFlags, stderr io.Writer) (*archive.Archiver, func(), error) {
	var fetcher pagearc.Fetcher
	if flags.Plain {
		fetcher = pagearchttp.NewFetcher()
	} else {
		rodFetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --plain for static sites")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rodFetcher
	}
	fetcher = pagearcslog.NewLoggingFetcher(fetcher, logger)

	rules := normalize.DefaultRules()
	if flags.Rules != "" {
		var err error
		rules, err = normalize.LoadRules(flags.Rules)
		if err != nil {
			fetcher.Close()
			return nil, nil, fmt.Errorf("failed to load rules from %q: %w", flags.Rules, err)
		}
	}

	writer := fs.NewWriter(resolveOutput(flags), fs.WithOverwrite(flags.Overwrite))

	archiver := &archive.Archiver{
		Fetcher:    fetcher,
		Converter:  htmltomarkdown.NewConverter(),
		Normalizer: normalize.New(rules),
		Titles:     goquery.NewTitleExtractor(),
		Writer:     pagearcslog.NewLoggingWriter(writer, logger),
		Manifest:   m.Manifest,
		Policy: retry.Policy{
			MaxAttempts: flags.Attempts,
			BaseDelay:   time.Second,
			MaxDelay:    30 * time.Second,
			OnRetry: func(a retry.Attempt) {
				logger.Warn("retrying",
					"attempt", a.Number,
					"max", a.Max,
					"delay", a.Delay,
					"err", a.Err,
				)
			},
		},
		Options: pagearc.DefaultNormalizeOptions(),
	}

	return archiver, func() { _ = fetcher.Close() }, nil
}

func defaultDBPath() string {
	if path := os.Getenv("PAGEARC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagearc.db"
	}
	dir := filepath.Join(home, ".pagearc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pagearc.db")
}
