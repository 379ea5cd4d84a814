package main

import (
	"io"
	"time"

	"github.com/pagearc/pagearc/archive"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progressBar renders batch archive progress as a terminal bar.
type progressBar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newProgressBar(out io.Writer, total int) *progressBar {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(out),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	bar := p.New(int64(total),
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(
			decor.Name("archiving  "),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d pages", decor.WCSyncWidth),
		),
	)
	return &progressBar{p: p, bar: bar}
}

// observe is an archive.ProgressFunc feeding the bar.
func (b *progressBar) observe(e archive.ProgressEvent) {
	switch e.Type {
	case archive.ProgressCompleted, archive.ProgressSkipped, archive.ProgressFailed:
		b.bar.SetCurrent(int64(e.Completed))
	case archive.ProgressFinished:
		b.bar.SetTotal(int64(e.Total), true)
	}
}

// wait blocks until the bar has rendered its final state.
func (b *progressBar) wait() {
	b.p.Wait()
}
