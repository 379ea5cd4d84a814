package main

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/pagearc/pagearc"
	"github.com/pagearc/pagearc/archive"
)

// Run executes the site command.
func (c *SiteCmd) Run(deps *Dependencies) error {
	urls, err := deps.Source.Discover(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagearc.ErrorMessage(err))
		return err
	}

	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages discovered. The site may not publish a sitemap; try 'pagearc save' for individual pages.")
		return nil
	}

	if !c.Yes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Archive %d pages", len(urls)),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			fmt.Fprintln(deps.Stdout, "Aborted.")
			return nil
		}
	}

	bar := newProgressBar(deps.Stdout, len(urls))
	var failures []archive.ProgressEvent
	result, err := deps.Archiver.ArchiveAll(deps.Ctx, urls, func(e archive.ProgressEvent) {
		if e.Type == archive.ProgressFailed {
			failures = append(failures, e)
		}
		bar.observe(e)
	})
	bar.wait()
	if err != nil {
		return err
	}

	for _, f := range failures {
		fmt.Fprintf(deps.Stderr, "  failed %s: %s\n",
			archive.TruncateURL(f.URL, 60), pagearc.ErrorMessage(f.Error))
	}

	fmt.Fprintf(deps.Stdout, "Saved %d pages, skipped %d, failed %d (%s)\n",
		result.Saved, result.Skipped, result.Failed, archive.FormatBytes(result.Bytes))

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d pages failed", result.Failed, len(urls))
	}

	return nil
}
