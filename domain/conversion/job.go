package conversion

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultBitrate is the default audio bitrate for conversion
const DefaultBitrate = "192k"

// InputExtension is the extension of source files selected in directory mode
const InputExtension = ".mp4"

// OutputExtension is the extension of converted files
const OutputExtension = ".mp3"

// Job represents a single source-file-to-destination-file conversion
type Job struct {
	SourcePath      string
	DestinationPath string
	Bitrate         string
	Overwrite       bool
}

// NewJob creates a new Job with validation.
// When outputDir is empty, the destination is placed next to the source file.
func NewJob(sourcePath, outputDir, bitrate string, overwrite bool) (*Job, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source video path is required")
	}

	if bitrate == "" {
		bitrate = DefaultBitrate
	}

	if outputDir == "" {
		outputDir = filepath.Dir(sourcePath)
	}

	return &Job{
		SourcePath:      sourcePath,
		DestinationPath: filepath.Join(outputDir, OutputFilename(sourcePath)),
		Bitrate:         bitrate,
		Overwrite:       overwrite,
	}, nil
}

// OutputFilename returns the destination filename for a source path:
// the source basename with its extension replaced by .mp3.
// Subdirectory structure is intentionally not mirrored (outputs are flattened).
func OutputFilename(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + OutputExtension
}
