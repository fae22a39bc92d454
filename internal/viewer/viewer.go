// Package viewer opens files with the platform's default handler.
package viewer

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/alnah/go-md2chm/internal/fileutil"
	"github.com/alnah/go-md2chm/internal/process"
)

// Sentinel errors for viewer operations.
var (
	ErrNotFound = errors.New("file to open not found")
	ErrStart    = errors.New("failed to start viewer")
)

// goos and command are replaced in tests.
var (
	goos    = runtime.GOOS
	command = exec.Command
)

// Command returns the program and arguments that open path on goos.
func Command(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		// The empty argument is the window title expected by start.
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open starts the default handler for path and returns without waiting for
// it. The handler keeps running after we exit.
func Open(path string) error {
	if !fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	name, args := Command(goos, path)
	cmd := command(name, args...) // #nosec G204 -- fixed program, path is our own output
	process.Detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStart, name, err)
	}
	// Reap the handler in the background; its exit status does not matter.
	go func() { _ = cmd.Wait() }()
	return nil
}
