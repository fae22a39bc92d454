package main

// Notes:
// - runDoctorCmd: we test JSON and human output against a configured
//   compiler (the test binary) and a missing one.
// - isContainer/checkEnvironment: the override variable is tested with
//   t.Setenv, so those tests cannot use t.Parallel(). Other signals
//   (/.dockerenv, Kubernetes) depend on the host and are not asserted.
// - Default compiler discovery depends on the host and is only checked for
//   consistency between status and exit code.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alnah/go-md2chm/internal/hhc/hhctest"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - JSON structure and compiler detection
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	t.Run("configured compiler found", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		env := &Environment{Stdout: &stdout, Stderr: &stderr}

		code := runDoctorCmd([]string{"--json", "--compiler", hhctest.Binary()}, env)

		var result doctorResult
		if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, stdout.String())
		}
		if !result.Compiler.Found || result.Compiler.Path != hhctest.Binary() {
			t.Errorf("compiler = %+v, want found at %s", result.Compiler, hhctest.Binary())
		}
		if result.Compiler.Configured != hhctest.Binary() {
			t.Errorf("configured = %q", result.Compiler.Configured)
		}
		if len(result.Compiler.Candidates) != 0 {
			t.Errorf("candidates listed for a configured compiler: %v", result.Compiler.Candidates)
		}
		if !slices.Contains(result.System.Styles, "default") {
			t.Errorf("styles = %v, want default listed", result.System.Styles)
		}
		if result.Env.OS == "" || result.Env.Arch == "" {
			t.Errorf("environment missing platform: %+v", result.Env)
		}
		if result.Status == "errors" {
			t.Errorf("status = errors: %v", result.Errors)
		}
		if code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
	})

	t.Run("configured compiler missing", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
		missing := filepath.Join(t.TempDir(), "hhc.exe")

		code := runDoctorCmd([]string{"--json", "--compiler", missing}, env)

		var result doctorResult
		if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, stdout.String())
		}
		if result.Compiler.Found {
			t.Error("compiler reported found")
		}
		if result.Status != "errors" {
			t.Errorf("status = %q, want errors", result.Status)
		}
		if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "help compiler not found") {
			t.Errorf("errors = %v", result.Errors)
		}
		if code != ExitGeneral {
			t.Errorf("exit code = %d, want %d", code, ExitGeneral)
		}
	})

	t.Run("default discovery", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}

		code := runDoctorCmd([]string{"--json"}, env)

		var result doctorResult
		if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, stdout.String())
		}
		valid := map[string]bool{"ready": true, "warnings": true, "errors": true}
		if !valid[result.Status] {
			t.Errorf("invalid status %q", result.Status)
		}
		if result.Status == "errors" && code != ExitGeneral {
			t.Errorf("exit code = %d for errors status, want %d", code, ExitGeneral)
		}
		if result.Status != "errors" && code != ExitSuccess {
			t.Errorf("exit code = %d for %s status, want %d", code, result.Status, ExitSuccess)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput - Text report sections
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	missing := filepath.Join(t.TempDir(), "hhc.exe")

	runDoctorCmd([]string{"--compiler", missing}, env)

	out := stdout.String()
	for _, want := range []string{
		"md2chm doctor",
		"Help compiler",
		"[ERROR] Not found",
		"configured: " + missing,
		"Environment",
		"System",
		"[OK] Styles: default, minimal, technical",
		"Errors:\n  [ERROR] help compiler not found",
		"Status: Not ready",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Flags - Help and bad flags
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Flags(t *testing.T) {
	t.Parallel()

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}

		if code := runDoctorCmd([]string{"--help"}, env); code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
		if !strings.Contains(stdout.String(), "Usage: md2chm doctor") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		env := &Environment{Stdout: &bytes.Buffer{}, Stderr: &stderr}

		if code := runDoctorCmd([]string{"--fix"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "invalid usage") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestIsContainer_Override - Explicit container flag
// ---------------------------------------------------------------------------

func TestIsContainer_Override(t *testing.T) {
	t.Setenv("MD2CHM_CONTAINER", "1")

	got, hint := isContainer()
	if !got || hint != "MD2CHM_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q, want true, MD2CHM_CONTAINER=1", got, hint)
	}

	result := &doctorResult{}
	checkEnvironment(result)
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "--no-open") {
		t.Errorf("warnings = %v, want viewer warning", result.Warnings)
	}
}
