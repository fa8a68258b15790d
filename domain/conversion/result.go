package conversion

// Status classifies the outcome of a single job
type Status string

const (
	// StatusConverted means the encoder ran and the destination was written
	StatusConverted Status = "converted"

	// StatusSkipped means the destination already existed and overwrite was disabled
	StatusSkipped Status = "skipped"

	// StatusFailed means the encoder invocation failed
	StatusFailed Status = "failed"
)

// Result is the outcome of one Job.
// Message carries the skip reason or the failure diagnostic.
type Result struct {
	Job     *Job
	Status  Status
	Message string
}

// Converted creates a successful result
func Converted(job *Job) Result {
	return Result{Job: job, Status: StatusConverted}
}

// Skipped creates a skipped result with a reason
func Skipped(job *Job, reason string) Result {
	return Result{Job: job, Status: StatusSkipped, Message: reason}
}

// Failed creates a failed result with a diagnostic
func Failed(job *Job, err error) Result {
	return Result{Job: job, Status: StatusFailed, Message: err.Error()}
}

// Summary aggregates results over a batch run
type Summary struct {
	Converted int
	Skipped   int
	Failed    int
}

// Add records one result in the summary
func (s *Summary) Add(r Result) {
	switch r.Status {
	case StatusConverted:
		s.Converted++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Total returns the number of recorded results
func (s *Summary) Total() int {
	return s.Converted + s.Skipped + s.Failed
}

// HasFailures reports whether any job failed
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}

// Summarize builds a Summary from a slice of results
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Add(r)
	}
	return s
}
