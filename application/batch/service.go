package batch

import (
	"context"
	"fmt"
	"sync"

	"mp4tomp3/domain/conversion"
)

// SourceFinder abstracts input discovery for the batch run.
// This is declared here (not in infrastructure) so tests can supply fakes.
type SourceFinder interface {
	// Find resolves path to a sorted list of candidate source files.
	// A file path yields itself; a directory yields entries whose extension
	// matches ext case-insensitively, walking subdirectories when recursive.
	Find(path, ext string, recursive bool) ([]string, error)
}

// Reporter receives per-job progress notifications during a run
type Reporter interface {
	JobStarted(index, total int, job *conversion.Job)
	JobFinished(index, total int, result conversion.Result)
}

// nopReporter discards all notifications
type nopReporter struct{}

func (nopReporter) JobStarted(int, int, *conversion.Job)    {}
func (nopReporter) JobFinished(int, int, conversion.Result) {}

// Service coordinates a batch conversion run
type Service struct {
	converter conversion.AudioConverter
	checker   conversion.FileChecker
	finder    SourceFinder
	reporter  Reporter
	workers   int
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithWorkers sets the number of parallel conversion workers (default 1)
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithReporter sets the progress reporter
func WithReporter(r Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// NewService creates a new batch conversion service
func NewService(converter conversion.AudioConverter, checker conversion.FileChecker, finder SourceFinder, opts ...Option) *Service {
	s := &Service{
		converter: converter,
		checker:   checker,
		finder:    finder,
		reporter:  nopReporter{},
		workers:   1,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Input contains the parameters for a batch conversion run
type Input struct {
	InputPath string // Source file or directory
	OutputDir string // Destination directory (empty: next to each source)
	Bitrate   string // Audio bitrate, uses conversion.DefaultBitrate if empty
	Recursive bool   // Walk subdirectories when InputPath is a directory
	Overwrite bool   // Replace existing destinations instead of skipping
}

// Run discovers sources, converts each one, and returns exactly one result
// per discovered job, in discovery order regardless of execution order.
// Per-job failures never abort the batch; only discovery errors do.
func (s *Service) Run(ctx context.Context, input Input) ([]conversion.Result, error) {
	jobs, err := s.plan(input)
	if err != nil {
		return nil, err
	}

	total := len(jobs)
	results := make([]conversion.Result, total)

	if s.workers <= 1 {
		for i, job := range jobs {
			results[i] = s.runJob(ctx, i, total, job)
		}
		return results, nil
	}

	// Outputs are flattened, so duplicate basenames across subdirectories
	// collide on one destination. Claim destinations up front so no two
	// workers write the same path; later duplicates are skipped.
	claimed := make(map[string]bool, total)
	duplicate := make([]bool, total)
	for i, job := range jobs {
		if claimed[job.DestinationPath] {
			duplicate[i] = true
			continue
		}
		claimed[job.DestinationPath] = true
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if duplicate[i] {
					res := conversion.Skipped(jobs[i], "duplicate destination: "+jobs[i].DestinationPath)
					s.reporter.JobFinished(i, total, res)
					results[i] = res
					continue
				}
				results[i] = s.runJob(ctx, i, total, jobs[i])
			}
		}()
	}

	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results, nil
}

// plan resolves the input path into one job per discovered source
func (s *Service) plan(input Input) ([]*conversion.Job, error) {
	sources, err := s.finder.Find(input.InputPath, conversion.InputExtension, input.Recursive)
	if err != nil {
		return nil, err
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", conversion.InputExtension, input.InputPath)
	}

	jobs := make([]*conversion.Job, 0, len(sources))
	for _, source := range sources {
		job, err := conversion.NewJob(source, input.OutputDir, input.Bitrate, input.Overwrite)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// runJob processes one job: check-existence -> invoke -> classify-result
func (s *Service) runJob(ctx context.Context, index, total int, job *conversion.Job) conversion.Result {
	s.reporter.JobStarted(index, total, job)

	var res conversion.Result
	if !job.Overwrite && s.checker.Exists(job.DestinationPath) {
		res = conversion.Skipped(job, "output already exists")
	} else if err := s.converter.Convert(ctx, job); err != nil {
		res = conversion.Failed(job, err)
	} else {
		res = conversion.Converted(job)
	}

	s.reporter.JobFinished(index, total, res)
	return res
}
