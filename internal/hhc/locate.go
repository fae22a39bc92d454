package hhc

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-md2chm/internal/fileutil"
)

// workshopDir is where HTML Help Workshop installs hhc.exe under Program Files.
const workshopDir = "HTML Help Workshop"

// commandNames are looked up on PATH when no compiler is configured.
// chmcmd is the Free Pascal compiler, which also reads .hhp projects.
var commandNames = []string{"hhc", "hhc.exe", "chmcmd"}

// lookPath and getenv are replaced in tests.
var (
	lookPath = exec.LookPath
	getenv   = os.Getenv
	goos     = runtime.GOOS
)

// Locate returns the compiler to run. A non-empty configured value is
// resolved (as a path, or a command name on PATH) and must exist. Otherwise
// the HTML Help Workshop install directory is tried on Windows, then the
// known command names on PATH.
func Locate(configured string) (string, error) {
	if configured != "" {
		if strings.ContainsAny(configured, `/\`) {
			if fileutil.FileExists(configured) {
				return configured, nil
			}
			return "", fmt.Errorf("%w: %s", ErrCompilerNotFound, configured)
		}
		path, err := lookPath(configured)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrCompilerNotFound, configured)
		}
		return path, nil
	}

	tried := Candidates()
	for _, c := range tried {
		if strings.ContainsAny(c, `/\`) {
			if fileutil.FileExists(c) {
				return c, nil
			}
			continue
		}
		if path, err := lookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrCompilerNotFound, strings.Join(tried, ", "))
}

// Candidates lists the default locations Locate tries, in order.
func Candidates() []string {
	var out []string
	if goos == "windows" {
		for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
			if dir := getenv(env); dir != "" {
				out = append(out, filepath.Join(dir, workshopDir, "hhc.exe"))
			}
		}
	}
	return append(out, commandNames...)
}
