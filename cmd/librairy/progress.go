package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// newProgressCallback returns a completion callback that draws a terminal
// bar on stderr, or nil when stderr is not a terminal so redirected runs
// stay quiet. The bar is created on the first tick because the total is
// only known once planning finishes.
func newProgressCallback(label string) func(completed, total int) {
	fd := os.Stderr.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil
	}
	var bar *progressbar.ProgressBar
	return func(completed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription(label),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(completed)
	}
}
