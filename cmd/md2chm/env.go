package main

import (
	"io"
	"os"
	"time"

	md2chm "github.com/alnah/go-md2chm"
	"github.com/alnah/go-md2chm/internal/viewer"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the viewer and where remembered state lives.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// StatePath is the remembered-directories file. Empty means the default
	// location in the user config directory.
	StatePath string

	// Opener opens the compiled help file when the viewer is enabled.
	Opener md2chm.Opener

	// CompilerEnv holds extra "KEY=value" entries for the help compiler.
	CompilerEnv []string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Opener: viewer.Open,
	}
}
