// Package hhc runs an external HTML Help compiler against a project file and
// decides whether the compilation succeeded.
//
// The compiled file appearing on disk is the only success signal. Exit
// statuses of help compilers are not reliable (hhc.exe exits with 1 on
// success), so they are kept for diagnostics only.
package hhc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Sentinel errors for compiler operations.
var (
	ErrCompilerNotFound = errors.New("help compiler not found")
	ErrStart            = errors.New("failed to start help compiler")
	ErrArtifactMissing  = errors.New("compiled help file was not produced")
	ErrStaleArtifact    = errors.New("cannot remove previous compiled help file")
)

// maxSummaryLength bounds the compiler output quoted in error messages.
const maxSummaryLength = 500

// ProcessResult is the outcome of one compiler run.
type ProcessResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Summary returns stdout and stderr joined and truncated for error messages.
func (r ProcessResult) Summary() string {
	s := strings.TrimSpace(strings.TrimSpace(string(r.Stdout)) + "\n" + strings.TrimSpace(string(r.Stderr)))
	return clip(s, maxSummaryLength)
}

// Invoker runs a help compiler binary.
type Invoker struct {
	Path   string       // compiler executable
	Dir    string       // working directory; empty means the project file's directory
	Env    []string     // extra environment entries appended to the process environment
	Logger *slog.Logger // diagnostics; nil discards
}

// Invoke runs the compiler with projectPath as its only argument and waits
// for it to exit. There is no timeout: an unresponsive compiler blocks the
// caller. A non-zero exit status is not an error; only a failure to start
// the process is.
func (inv *Invoker) Invoke(projectPath string) (ProcessResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.Command(inv.Path, projectPath) // #nosec G204 -- compiler path is user configuration
	cmd.Dir = inv.Dir
	if cmd.Dir == "" {
		cmd.Dir = filepath.Dir(projectPath)
	}
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := ProcessResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, fmt.Errorf("%w: %s: %v", ErrStart, inv.Path, err)
	}

	inv.logger().LogAttrs(context.Background(), slog.LevelDebug, "help compiler exited",
		slog.String("compiler", inv.Path),
		slog.String("project", projectPath),
		slog.Int("status", result.ExitCode),
		slog.String("meaning", Describe(result.ExitCode)),
		slog.Duration("duration", result.Duration),
		slog.String("stdout", truncate(string(result.Stdout))),
		slog.String("stderr", truncate(string(result.Stderr))),
	)

	return result, nil
}

// Compile invokes the compiler and classifies the run by checking that
// artifactPath exists afterwards. An artifact left by an earlier run is
// removed first, so only a file written by this run counts.
func (inv *Invoker) Compile(projectPath, artifactPath string) (ProcessResult, error) {
	if err := os.Remove(artifactPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ProcessResult{}, fmt.Errorf("%w: %v", ErrStaleArtifact, err)
	}

	result, err := inv.Invoke(projectPath)
	if err != nil {
		return result, err
	}
	if err := Classify(artifactPath); err != nil {
		return result, err
	}
	return result, nil
}

// Classify returns nil if artifactPath exists as a regular file, and
// ErrArtifactMissing otherwise.
func Classify(artifactPath string) error {
	info, err := os.Stat(artifactPath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, artifactPath)
	}
	return nil
}

// Describe explains an exit status for logs. The meaning differs between
// compilers: hhc.exe exits with 1 on success and 0 on failure.
func Describe(status int) string {
	switch status {
	case 0:
		return "success for most compilers, failure for hhc.exe"
	case 1:
		return "success for hhc.exe, failure for most compilers"
	default:
		return "failure"
	}
}

func (inv *Invoker) logger() *slog.Logger {
	if inv.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return inv.Logger
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxSummaryLength {
		return clip(s, maxSummaryLength) + "..."
	}
	return s
}

// clip cuts s to at most n bytes without splitting a UTF-8 sequence.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
