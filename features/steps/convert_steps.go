//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"mp4tomp3/application/batch"
	"mp4tomp3/cmd"
	"mp4tomp3/domain/conversion"

	"github.com/cucumber/godog"
)

// mockConverter records conversions and fails for configured sources
type mockConverter struct {
	calls     []*conversion.Job
	failFor   map[string]string
	verifyErr error
}

func (m *mockConverter) Convert(ctx context.Context, job *conversion.Job) error {
	if msg, ok := m.failFor[job.SourcePath]; ok {
		return fmt.Errorf("ffmpeg conversion failed: %s", msg)
	}
	m.calls = append(m.calls, job)
	return nil
}

func (m *mockConverter) VerifyInstalled(ctx context.Context) error {
	return m.verifyErr
}

// mockFileChecker reports existence from a preset map
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// mockEnsurer records created directories
type mockEnsurer struct {
	created []string
}

func (m *mockEnsurer) EnsureDir(path string) error {
	m.created = append(m.created, path)
	return nil
}

// mockFinder resolves paths against an in-memory directory layout
type mockFinder struct {
	dirs  map[string][]string
	files map[string]bool
}

func (m *mockFinder) Find(path, ext string, recursive bool) ([]string, error) {
	if m.files[path] {
		return []string{path}, nil
	}
	entries, ok := m.dirs[path]
	if !ok {
		return nil, fmt.Errorf("input path not found: %s", path)
	}
	var sources []string
	for _, name := range entries {
		if strings.EqualFold(filepath.Ext(name), ext) {
			sources = append(sources, filepath.Join(path, name))
		}
	}
	return sources, nil
}

// convertContext holds test state for convert scenarios
type convertContext struct {
	outputDir string
	overwrite bool

	converter *mockConverter
	checker   *mockFileChecker
	ensurer   *mockEnsurer
	finder    *mockFinder
	output    *bytes.Buffer

	err error
}

// SharedConvertContext is reset before each scenario via Before hook
var SharedConvertContext *convertContext

func getConvertContext() *convertContext {
	return SharedConvertContext
}

func InitializeConvertScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedConvertContext = &convertContext{
			converter: &mockConverter{failFor: make(map[string]string)},
			checker:   &mockFileChecker{existingFiles: make(map[string]bool)},
			ensurer:   &mockEnsurer{},
			finder:    &mockFinder{dirs: make(map[string][]string), files: make(map[string]bool)},
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedConvertContext = nil
		return c, nil
	})

	ctx.Step(`^the output directory is "([^"]*)"$`, theOutputDirectoryIs)
	ctx.Step(`^a source directory "([^"]*)" containing:$`, aSourceDirectoryContaining)
	ctx.Step(`^a source file "([^"]*)"$`, aSourceFile)
	ctx.Step(`^the outputs already exist$`, theOutputsAlreadyExist)
	ctx.Step(`^overwriting is enabled$`, overwritingIsEnabled)
	ctx.Step(`^converting "([^"]*)" fails with "([^"]*)"$`, convertingFailsWith)
	ctx.Step(`^ffmpeg is not installed$`, ffmpegIsNotInstalled)
	ctx.Step(`^I run the conversion on "([^"]*)"$`, iRunTheConversionOn)
	ctx.Step(`^I attempt the conversion on "([^"]*)"$`, iAttemptTheConversionOn)
	ctx.Step(`^the summary should report (\d+) converted, (\d+) skipped, (\d+) failed$`, theSummaryShouldReport)
	ctx.Step(`^"([^"]*)" should have been written$`, shouldHaveBeenWritten)
	ctx.Step(`^I should receive an error about failed conversions$`, iShouldReceiveAnErrorAboutFailedConversions)
	ctx.Step(`^I should receive an error about ffmpeg$`, iShouldReceiveAnErrorAboutFfmpeg)
	ctx.Step(`^I should receive an error about the input path$`, iShouldReceiveAnErrorAboutTheInputPath)
	ctx.Step(`^no conversions should have run$`, noConversionsShouldHaveRun)
}

func theOutputDirectoryIs(dir string) error {
	getConvertContext().outputDir = dir
	return nil
}

func aSourceDirectoryContaining(dir string, table *godog.Table) error {
	c := getConvertContext()
	var entries []string
	for _, row := range table.Rows {
		entries = append(entries, row.Cells[0].Value)
	}
	c.finder.dirs[dir] = entries
	c.checker.existingFiles[dir] = true
	return nil
}

func aSourceFile(path string) error {
	c := getConvertContext()
	c.finder.files[path] = true
	c.checker.existingFiles[path] = true
	return nil
}

func theOutputsAlreadyExist() error {
	c := getConvertContext()
	for dir, entries := range c.finder.dirs {
		for _, name := range entries {
			if !strings.EqualFold(filepath.Ext(name), conversion.InputExtension) {
				continue
			}
			source := filepath.Join(dir, name)
			c.checker.existingFiles[filepath.Join(c.outputDir, conversion.OutputFilename(source))] = true
		}
	}
	return nil
}

func overwritingIsEnabled() error {
	getConvertContext().overwrite = true
	return nil
}

func convertingFailsWith(source, message string) error {
	getConvertContext().converter.failFor[source] = message
	return nil
}

func ffmpegIsNotInstalled() error {
	getConvertContext().converter.verifyErr = fmt.Errorf("ffmpeg not found or not executable")
	return nil
}

func runConversion(inputPath string) error {
	c := getConvertContext()

	c.err = cmd.RunConvertWithDependencies(
		context.Background(),
		c.converter,
		c.checker,
		c.ensurer,
		c.finder,
		batch.NewTextReporter(c.output),
		batch.Input{
			InputPath: inputPath,
			OutputDir: c.outputDir,
			Overwrite: c.overwrite,
		},
		1,
		c.output,
	)
	return nil
}

func iRunTheConversionOn(inputPath string) error {
	_ = runConversion(inputPath)
	if err := getConvertContext().err; err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func iAttemptTheConversionOn(inputPath string) error {
	return runConversion(inputPath)
}

func theSummaryShouldReport(converted, skipped, failed int) error {
	c := getConvertContext()
	want := fmt.Sprintf("Done: %d converted, %d skipped, %d failed", converted, skipped, failed)
	if !strings.Contains(c.output.String(), want) {
		return fmt.Errorf("summary %q not found in output:\n%s", want, c.output.String())
	}
	return nil
}

func shouldHaveBeenWritten(path string) error {
	c := getConvertContext()
	for _, job := range c.converter.calls {
		if job.DestinationPath == path {
			return nil
		}
	}
	return fmt.Errorf("no conversion wrote %q", path)
}

func iShouldReceiveAnErrorAboutFailedConversions() error {
	c := getConvertContext()
	if c.err == nil {
		return fmt.Errorf("expected an error, got none")
	}
	if !strings.Contains(c.err.Error(), "conversions failed") {
		return fmt.Errorf("error %q does not mention failed conversions", c.err)
	}
	return nil
}

func iShouldReceiveAnErrorAboutFfmpeg() error {
	c := getConvertContext()
	if c.err == nil {
		return fmt.Errorf("expected an error, got none")
	}
	if !strings.Contains(c.err.Error(), "ffmpeg") {
		return fmt.Errorf("error %q does not mention ffmpeg", c.err)
	}
	return nil
}

func iShouldReceiveAnErrorAboutTheInputPath() error {
	c := getConvertContext()
	if c.err == nil {
		return fmt.Errorf("expected an error, got none")
	}
	if !strings.Contains(c.err.Error(), "input path not found") {
		return fmt.Errorf("error %q does not mention the input path", c.err)
	}
	return nil
}

func noConversionsShouldHaveRun() error {
	c := getConvertContext()
	if len(c.converter.calls) != 0 {
		return fmt.Errorf("expected no conversions, got %d", len(c.converter.calls))
	}
	return nil
}
