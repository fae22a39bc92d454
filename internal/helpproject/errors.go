package helpproject

import "errors"

// Sentinel errors for help project emission.
var (
	ErrWrite      = errors.New("failed to write help project file")
	ErrEmptyTitle = errors.New("help title cannot be empty")
	ErrNoFiles    = errors.New("help project has no files")
)
