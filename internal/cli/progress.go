package cli

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// SearchProgress draws a progress bar while the client scans backward
// through transaction history for one record. The bar is sized on the
// first Update call, which carries the total window count.
type SearchProgress struct {
	writer io.Writer
	label  string
	bar    *progressbar.ProgressBar
}

// NewSearchProgress returns a progress reporter for the search for id
// that draws to w.
func NewSearchProgress(w io.Writer, id string) *SearchProgress {
	return &SearchProgress{
		writer: w,
		label:  fmt.Sprintf("[cyan]Searching for %s...[reset]", id),
	}
}

// Update records one completed window scan. Its signature matches the
// callback the client's search option expects.
func (p *SearchProgress) Update(scanned, total int) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(p.label),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(scanned)
}

// Done clears the bar so result output starts on a clean line. A search
// that ends early leaves an unfinished bar behind otherwise.
func (p *SearchProgress) Done() {
	if p.bar != nil {
		_ = p.bar.Clear()
	}
}
