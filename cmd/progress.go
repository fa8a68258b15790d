package cmd

import (
	"fmt"
	"io"
	"sync"

	"mp4tomp3/application/batch"
	"mp4tomp3/domain/conversion"

	"github.com/schollz/progressbar/v3"
)

// progressReporter renders the batch run as a single progress bar.
// Failures are still printed so their diagnostics are not lost.
type progressReporter struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
	out io.Writer
}

func newProgressReporter(out io.Writer) *progressReporter {
	return &progressReporter{out: out}
}

func (r *progressReporter) JobStarted(index, total int, job *conversion.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
		)
	}
}

func (r *progressReporter) JobFinished(index, total int, result conversion.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
	if result.Status == conversion.StatusFailed {
		fmt.Fprintf(r.out, "\nfailed: %s (%s)\n", result.Job.SourcePath, result.Message)
	}
}

// Ensure progressReporter implements batch.Reporter
var _ batch.Reporter = (*progressReporter)(nil)
