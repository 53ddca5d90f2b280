package fetcher

import (
	"fmt"
	"io"
	"os"
)

// Progress emits human-readable fetch progress. Quiet suppresses all
// output; the writer is swappable for tests.
type Progress struct {
	Quiet bool
	W     io.Writer
}

// NewProgress returns a progress printer on stdout.
func NewProgress(quiet bool) *Progress {
	return &Progress{Quiet: quiet, W: os.Stdout}
}

// Printf writes one progress line unless quiet.
func (p *Progress) Printf(format string, args ...interface{}) {
	if p == nil || p.Quiet {
		return
	}
	fmt.Fprintf(p.W, format+"\n", args...)
}
