package main

import (
	"fmt"

	"github.com/pagearc/pagearc"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	docs, err := deps.Manifest.ListDocuments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagearc.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages archived yet. Use 'pagearc save' or 'pagearc site' to archive some.")
		return nil
	}

	for _, d := range docs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n",
			d.FetchedAt.Format("2006-01-02"), d.FilePath, d.SourceURL)
	}

	return nil
}
