package main

import (
	"errors"
	"os"

	md2chm "github.com/alnah/go-md2chm"
	"github.com/alnah/go-md2chm/internal/config"
)

// Exit codes for md2chm CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Help file compiled
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // Missing source, unwritable destination
	ExitCompiler = 4 // Help compiler missing or compilation failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Compiler errors (exit 4)
	if errors.Is(err, md2chm.ErrCompilerNotFound) ||
		errors.Is(err, md2chm.ErrCompilation) {
		return ExitCompiler
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrConflictingFlags) ||
		errors.Is(err, ErrDestinationOverlapsSource) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, md2chm.ErrConfiguration) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoOutput) ||
		errors.Is(err, ErrDestinationNotEmpty) ||
		errors.Is(err, ErrOutputDirectory) ||
		errors.Is(err, md2chm.ErrSourceNotFound) ||
		errors.Is(err, md2chm.ErrNoDocuments) ||
		errors.Is(err, md2chm.ErrDocumentOpen) ||
		errors.Is(err, md2chm.ErrDocumentWrite) ||
		errors.Is(err, md2chm.ErrNoArtifacts) ||
		errors.Is(err, md2chm.ErrDescriptorWrite) {
		return ExitIO
	}

	return ExitGeneral
}
