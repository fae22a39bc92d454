package md2chm

import (
	"errors"
	"fmt"

	"github.com/alnah/go-md2chm/internal/hhc"
)

// Sentinel errors for compile operations.
var (
	// ErrConfiguration indicates missing or invalid required input.
	ErrConfiguration    = errors.New("invalid configuration")
	ErrEmptySource      = fmt.Errorf("%w: source directory is required", ErrConfiguration)
	ErrEmptyDestination = fmt.Errorf("%w: destination directory is required", ErrConfiguration)
	ErrEmptyTitle       = fmt.Errorf("%w: help title is required", ErrConfiguration)
	ErrInvalidTitle     = fmt.Errorf("%w: help title must be a file name", ErrConfiguration)
	ErrInvalidStyle     = fmt.Errorf("%w: style could not be loaded", ErrConfiguration)
	ErrInvalidAssetPath = fmt.Errorf("%w: invalid asset path", ErrConfiguration)

	ErrSourceNotFound  = errors.New("source directory not found")
	ErrNoDocuments     = errors.New("no documents found")
	ErrDocumentOpen    = errors.New("failed to read document")
	ErrDocumentRender  = errors.New("failed to render document")
	ErrDocumentWrite   = errors.New("failed to write page")
	ErrNoArtifacts     = errors.New("no pages were generated")
	ErrDescriptorWrite = errors.New("failed to write help project")
	ErrCompilation     = errors.New("help compilation failed")

	// ErrCompilerNotFound is returned before any work when no help compiler can be located.
	ErrCompilerNotFound = hhc.ErrCompilerNotFound
)
