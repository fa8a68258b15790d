package batch

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"mp4tomp3/domain/conversion"
)

func TestTextReporterLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	job := &conversion.Job{SourcePath: "video/a.mp4", DestinationPath: "audio/a.mp3", Bitrate: "192k"}

	r.JobStarted(0, 3, job)
	r.JobFinished(0, 3, conversion.Converted(job))
	r.JobFinished(1, 3, conversion.Skipped(job, "output already exists"))
	r.JobFinished(2, 3, conversion.Failed(job, errors.New("ffmpeg conversion failed: exit status 1")))

	out := buf.String()

	if !strings.Contains(out, "[1/3] converting: video/a.mp4 -> audio/a.mp3") {
		t.Errorf("missing converting line, got:\n%s", out)
	}
	if !strings.Contains(out, "[2/3] skipped: audio/a.mp3 (output already exists)") {
		t.Errorf("missing skipped line, got:\n%s", out)
	}
	if !strings.Contains(out, "[3/3] failed: video/a.mp4 (ffmpeg conversion failed: exit status 1)") {
		t.Errorf("missing failed line, got:\n%s", out)
	}
	if strings.Contains(out, "[1/3] converted") {
		t.Errorf("converted results should not produce a finish line, got:\n%s", out)
	}
}
