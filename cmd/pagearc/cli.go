package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/pagearc/pagearc"
	"github.com/pagearc/pagearc/archive"
	"github.com/pagearc/pagearc/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Manifest pagearc.ManifestService
	Source   pagearc.URLSource
	Archiver *archive.Archiver
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug bool `help:"Enable debug logging"`

	Save SaveCmd `cmd:"" help:"Archive a single page as markdown"`
	Site SiteCmd `cmd:"" help:"Archive a whole site discovered from its sitemap"`
	List ListCmd `cmd:"" help:"List archived pages from the manifest"`
}

// ArchiveFlags are shared by the commands that run the archive pipeline.
type ArchiveFlags struct {
	Output    *string `short:"o" env:"PAGEARC_OUTPUT" help:"Output directory (prompted when interactive and unset)"`
	Overwrite bool    `help:"Overwrite existing files"`
	Plain     bool    `help:"Fetch with plain HTTP instead of a headless browser"`
	Attempts  int     `default:"3" help:"Max attempts per page"`
	Rules     string  `env:"PAGEARC_RULES" help:"Path to a YAML normalization rules file"`
}

// SaveCmd is the "save" subcommand.
type SaveCmd struct {
	URLs []string `arg:"" help:"Page URLs"`

	ArchiveFlags `embed:""`
}

// SiteCmd is the "site" subcommand.
type SiteCmd struct {
	URL string `arg:"" help:"Site URL; pages outside its path prefix are skipped"`

	ArchiveFlags `embed:""`

	Rate float64 `default:"1.0" help:"Max requests per second per domain"`
	Yes  bool    `short:"y" help:"Skip the confirmation prompt"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}
