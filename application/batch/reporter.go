package batch

import (
	"fmt"
	"io"
	"sync"

	"mp4tomp3/domain/conversion"
)

// TextReporter writes plain per-job progress lines to a writer.
// It is safe for concurrent use by multiple workers.
type TextReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTextReporter creates a reporter writing to out
func NewTextReporter(out io.Writer) *TextReporter {
	return &TextReporter{out: out}
}

// JobStarted implements Reporter
func (r *TextReporter) JobStarted(index, total int, job *conversion.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[%d/%d] converting: %s -> %s\n", index+1, total, job.SourcePath, job.DestinationPath)
}

// JobFinished implements Reporter
func (r *TextReporter) JobFinished(index, total int, result conversion.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch result.Status {
	case conversion.StatusSkipped:
		fmt.Fprintf(r.out, "[%d/%d] skipped: %s (%s)\n", index+1, total, result.Job.DestinationPath, result.Message)
	case conversion.StatusFailed:
		fmt.Fprintf(r.out, "[%d/%d] failed: %s (%s)\n", index+1, total, result.Job.SourcePath, result.Message)
	}
}

// Ensure TextReporter implements Reporter
var _ Reporter = (*TextReporter)(nil)
