package batch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"mp4tomp3/domain/conversion"
)

// mockFinder returns a preset list of sources
type mockFinder struct {
	sources []string
	err     error

	gotPath      string
	gotExt       string
	gotRecursive bool
}

func (m *mockFinder) Find(path, ext string, recursive bool) ([]string, error) {
	m.gotPath = path
	m.gotExt = ext
	m.gotRecursive = recursive
	return m.sources, m.err
}

// mockChecker reports existence from a preset map
type mockChecker struct {
	existingFiles map[string]bool
}

func (m *mockChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// mockConverter records conversions and fails for configured sources
type mockConverter struct {
	mu        sync.Mutex
	converted []*conversion.Job
	failFor   map[string]error
}

func (m *mockConverter) Convert(ctx context.Context, job *conversion.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[job.SourcePath]; ok {
		return err
	}
	m.converted = append(m.converted, job)
	return nil
}

func (m *mockConverter) calls() []*conversion.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*conversion.Job(nil), m.converted...)
}

func newMocks(sources ...string) (*mockConverter, *mockChecker, *mockFinder) {
	return &mockConverter{failFor: map[string]error{}},
		&mockChecker{existingFiles: map[string]bool{}},
		&mockFinder{sources: sources}
}

func TestRunConvertsEveryDiscoveredFile(t *testing.T) {
	converter, checker, finder := newMocks(
		filepath.Join("video", "a.mp4"),
		filepath.Join("video", "b.MP4"),
	)

	service := NewService(converter, checker, finder)

	results, err := service.Run(context.Background(), Input{
		InputPath: "video",
		OutputDir: "audio",
		Bitrate:   "192k",
	})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, res := range results {
		if res.Status != conversion.StatusConverted {
			t.Errorf("result %d status = %q, want %q", i, res.Status, conversion.StatusConverted)
		}
	}

	if got := results[0].Job.DestinationPath; got != filepath.Join("audio", "a.mp3") {
		t.Errorf("first destination = %q, want %q", got, filepath.Join("audio", "a.mp3"))
	}
	if got := results[1].Job.DestinationPath; got != filepath.Join("audio", "b.mp3") {
		t.Errorf("second destination = %q, want %q", got, filepath.Join("audio", "b.mp3"))
	}

	if len(converter.calls()) != 2 {
		t.Errorf("converter called %d times, want 2", len(converter.calls()))
	}
}

func TestRunPassesBitrateThrough(t *testing.T) {
	converter, checker, finder := newMocks("a.mp4")

	service := NewService(converter, checker, finder)

	if _, err := service.Run(context.Background(), Input{InputPath: "a.mp4", OutputDir: "audio", Bitrate: "256k"}); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	calls := converter.calls()
	if len(calls) != 1 {
		t.Fatalf("converter called %d times, want 1", len(calls))
	}
	if calls[0].Bitrate != "256k" {
		t.Errorf("Bitrate = %q, want %q", calls[0].Bitrate, "256k")
	}
}

func TestRunAppliesDefaultBitrate(t *testing.T) {
	converter, checker, finder := newMocks("a.mp4")

	service := NewService(converter, checker, finder)

	if _, err := service.Run(context.Background(), Input{InputPath: "a.mp4", OutputDir: "audio"}); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	calls := converter.calls()
	if calls[0].Bitrate != conversion.DefaultBitrate {
		t.Errorf("Bitrate = %q, want %q", calls[0].Bitrate, conversion.DefaultBitrate)
	}
}

func TestRunSkipsExistingDestination(t *testing.T) {
	converter, checker, finder := newMocks("a.mp4", "b.mp4")
	checker.existingFiles[filepath.Join("audio", "a.mp3")] = true

	service := NewService(converter, checker, finder)

	results, err := service.Run(context.Background(), Input{InputPath: ".", OutputDir: "audio"})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if results[0].Status != conversion.StatusSkipped {
		t.Errorf("first status = %q, want %q", results[0].Status, conversion.StatusSkipped)
	}
	if results[0].Message != "output already exists" {
		t.Errorf("skip reason = %q, want %q", results[0].Message, "output already exists")
	}
	if results[1].Status != conversion.StatusConverted {
		t.Errorf("second status = %q, want %q", results[1].Status, conversion.StatusConverted)
	}

	// The encoder must not run for the skipped job
	for _, job := range converter.calls() {
		if job.SourcePath == "a.mp4" {
			t.Error("converter was invoked for a skipped job")
		}
	}
}

func TestRunOverwriteConvertsExistingDestination(t *testing.T) {
	converter, checker, finder := newMocks("a.mp4")
	checker.existingFiles[filepath.Join("audio", "a.mp3")] = true

	service := NewService(converter, checker, finder)

	results, err := service.Run(context.Background(), Input{InputPath: ".", OutputDir: "audio", Overwrite: true})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if results[0].Status != conversion.StatusConverted {
		t.Errorf("status = %q, want %q", results[0].Status, conversion.StatusConverted)
	}
	if len(converter.calls()) != 1 {
		t.Errorf("converter called %d times, want 1", len(converter.calls()))
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	converter, checker, finder := newMocks("a.mp4", "b.mp4", "c.mp4")
	converter.failFor["a.mp4"] = errors.New("ffmpeg conversion failed: exit status 1")

	service := NewService(converter, checker, finder)

	results, err := service.Run(context.Background(), Input{InputPath: ".", OutputDir: "audio"})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if results[0].Status != conversion.StatusFailed {
		t.Errorf("first status = %q, want %q", results[0].Status, conversion.StatusFailed)
	}
	if results[0].Message == "" {
		t.Error("failed result has no diagnostic message")
	}
	if results[1].Status != conversion.StatusConverted || results[2].Status != conversion.StatusConverted {
		t.Error("batch did not continue after a per-job failure")
	}

	summary := conversion.Summarize(results)
	if summary.Failed != 1 || summary.Converted != 2 {
		t.Errorf("summary = %+v, want 1 failed, 2 converted", summary)
	}
}

func TestRunErrorsWhenNoSourcesFound(t *testing.T) {
	converter, checker, finder := newMocks()

	service := NewService(converter, checker, finder)

	_, err := service.Run(context.Background(), Input{InputPath: "video", OutputDir: "audio"})
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}
	if !containsString(err.Error(), "no .mp4 files found") {
		t.Errorf("error = %v, want mention of no files found", err)
	}
}

func TestRunPropagatesFinderError(t *testing.T) {
	converter, checker, finder := newMocks()
	finder.err = errors.New("input path not found: video")

	service := NewService(converter, checker, finder)

	_, err := service.Run(context.Background(), Input{InputPath: "video", OutputDir: "audio"})
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}
	if !containsString(err.Error(), "input path not found") {
		t.Errorf("error = %v, want input path not found", err)
	}
}

func TestRunForwardsDiscoveryParameters(t *testing.T) {
	converter, checker, finder := newMocks("a.mp4")

	service := NewService(converter, checker, finder)

	if _, err := service.Run(context.Background(), Input{InputPath: "video", OutputDir: "audio", Recursive: true}); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if finder.gotPath != "video" {
		t.Errorf("finder path = %q, want %q", finder.gotPath, "video")
	}
	if finder.gotExt != conversion.InputExtension {
		t.Errorf("finder ext = %q, want %q", finder.gotExt, conversion.InputExtension)
	}
	if !finder.gotRecursive {
		t.Error("finder recursive = false, want true")
	}
}

func TestRunParallelProducesOneResultPerJob(t *testing.T) {
	sources := []string{
		filepath.Join("video", "1", "talk.mp4"),
		filepath.Join("video", "2", "talk.mp4"), // same basename: duplicate destination
		filepath.Join("video", "a.mp4"),
		filepath.Join("video", "b.mp4"),
		filepath.Join("video", "c.mp4"),
	}
	converter, checker, finder := newMocks(sources...)

	service := NewService(converter, checker, finder, WithWorkers(4))

	results, err := service.Run(context.Background(), Input{InputPath: "video", OutputDir: "audio"})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if len(results) != len(sources) {
		t.Fatalf("got %d results, want %d", len(results), len(sources))
	}

	// Discovery order is preserved regardless of execution order
	for i, res := range results {
		if res.Job.SourcePath != sources[i] {
			t.Errorf("result %d source = %q, want %q", i, res.Job.SourcePath, sources[i])
		}
	}

	// The later duplicate destination is skipped, never converted
	if results[1].Status != conversion.StatusSkipped {
		t.Errorf("duplicate destination status = %q, want %q", results[1].Status, conversion.StatusSkipped)
	}
	if !containsString(results[1].Message, "duplicate destination") {
		t.Errorf("duplicate skip reason = %q", results[1].Message)
	}

	summary := conversion.Summarize(results)
	if summary.Converted != 4 || summary.Skipped != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 4 converted, 1 skipped", summary)
	}

	if len(converter.calls()) != 4 {
		t.Errorf("converter called %d times, want 4", len(converter.calls()))
	}
}

func containsString(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
