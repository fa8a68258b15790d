package conversion

import "context"

// AudioConverter defines the interface for audio conversion operations
// This is a port that can be implemented by different infrastructure adapters
type AudioConverter interface {
	// Convert encodes the job's source into its destination
	Convert(ctx context.Context, job *Job) error
}

// FileChecker abstracts file existence checks (allows mocking in tests)
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}
