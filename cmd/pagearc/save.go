package main

import (
	"fmt"

	"github.com/pagearc/pagearc"
	"github.com/pagearc/pagearc/archive"
)

// Run executes the save command.
func (c *SaveCmd) Run(deps *Dependencies) error {
	failed := 0

	for _, url := range c.URLs {
		doc, status, err := deps.Archiver.ArchivePage(deps.Ctx, url)
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", url, pagearc.ErrorMessage(err))
			continue
		}

		switch status {
		case archive.StatusUnchanged:
			fmt.Fprintf(deps.Stdout, "Unchanged: %s\n", url)
		case archive.StatusExists:
			fmt.Fprintf(deps.Stdout, "Exists: %s (use --overwrite to replace)\n", url)
		default:
			fmt.Fprintf(deps.Stdout, "Saved %s (%s)\n", doc.FilePath, archive.FormatBytes(len(doc.Content)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(c.URLs))
	}

	return nil
}
