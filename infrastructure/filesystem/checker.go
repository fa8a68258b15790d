package filesystem

import (
	"os"

	"mp4tomp3/domain/conversion"
)

// Checker implements conversion.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates the directory (and parents) if it does not exist
func (c *Checker) EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Ensure Checker implements conversion.FileChecker
var _ conversion.FileChecker = (*Checker)(nil)
