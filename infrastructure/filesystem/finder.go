package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mp4tomp3/application/batch"
)

// Finder implements batch.SourceFinder against the real filesystem
type Finder struct{}

// NewFinder creates a new filesystem finder
func NewFinder() *Finder {
	return &Finder{}
}

// Find resolves path to a sorted list of candidate source files.
// An explicit file path is trusted regardless of its extension. A directory
// yields entries whose extension matches ext case-insensitively; recursive
// mode walks the full subtree, otherwise only direct children are listed.
func (f *Finder) Find(path, ext string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input path not found: %s", path)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && matchesExt(p, ext) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", path, err)
		}
	} else {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && matchesExt(entry.Name(), ext) {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// matchesExt compares the path's extension to ext case-insensitively
func matchesExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// Ensure Finder implements batch.SourceFinder
var _ batch.SourceFinder = (*Finder)(nil)
