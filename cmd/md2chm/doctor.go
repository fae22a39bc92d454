package main

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2chm/internal/assets"
	"github.com/alnah/go-md2chm/internal/hhc"
	"github.com/alnah/go-md2chm/internal/state"
)

// Doctor statuses, worst last.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult is the doctor report. It is printed as text or encoded as
// JSON with --json.
type doctorResult struct {
	Status   string       `json:"status"`
	Compiler compilerInfo `json:"compiler"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

type compilerInfo struct {
	Found      bool     `json:"found"`
	Path       string   `json:"path,omitempty"`
	Configured string   `json:"configured,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

type systemInfo struct {
	TempWritable bool     `json:"temp_writable"`
	StateFile    string   `json:"state_file,omitempty"`
	Styles       []string `json:"styles"`
}

func (r *doctorResult) warn(msg string) { r.Warnings = append(r.Warnings, msg) }
func (r *doctorResult) fail(msg string) { r.Errors = append(r.Errors, msg) }
func (r *doctorResult) ready() bool     { return r.Status != statusErrors }
func (r *doctorResult) settle() *doctorResult {
	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

// runDoctorCmd runs the doctor command. It exits 1 when a check fails and
// 0 otherwise, warnings included.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printDoctorUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		return reportError(env.Stderr, fmt.Errorf("%w: %v", ErrUsage, err))
	}

	configured := cmp.Or(flags.compiler, os.Getenv("MD2CHM_COMPILER"))
	result := runDoctor(configured)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if !result.ready() {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(configured string) *doctorResult {
	result := &doctorResult{Env: envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH}}
	checkCompiler(result, configured)
	checkEnvironment(result)
	checkSystem(result)
	return result.settle()
}

// checkCompiler locates the help compiler exactly as a build would.
func checkCompiler(result *doctorResult, configured string) {
	c := &result.Compiler
	c.Configured = configured
	if configured == "" {
		c.Candidates = hhc.Candidates()
	}

	path, err := hhc.Locate(configured)
	if err != nil {
		result.fail(err.Error())
		return
	}
	c.Found, c.Path = true, path

	// hhc.exe is a Windows program; elsewhere it only runs under wine.
	if runtime.GOOS != "windows" && strings.EqualFold(filepath.Base(path), "hhc.exe") {
		if _, err := exec.LookPath("wine"); err != nil {
			result.warn("hhc.exe found but wine is not on PATH; compilation will fail")
		}
	}
}

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
	if result.Env.Container || result.Env.CI {
		result.warn("Container/CI detected: the viewer cannot open compiled help. Use --no-open")
	}
}

// containerSignals are checked in order; the first hit names the hint.
var containerSignals = []func() (string, bool){
	func() (string, bool) { return "MD2CHM_CONTAINER=1", os.Getenv("MD2CHM_CONTAINER") == "1" },
	func() (string, bool) { _, err := os.Stat("/.dockerenv"); return "/.dockerenv", err == nil },
	func() (string, bool) { v := os.Getenv("container"); return "container=" + v, v != "" },
	func() (string, bool) {
		return "KUBERNETES_SERVICE_HOST", os.Getenv("KUBERNETES_SERVICE_HOST") != ""
	},
}

// isContainer reports whether the process runs in a container and which
// signal said so.
func isContainer() (bool, string) {
	for _, signal := range containerSignals {
		if hint, ok := signal(); ok {
			return true, hint
		}
	}
	return false, ""
}

func checkSystem(result *doctorResult) {
	tmp, err := os.CreateTemp("", "md2chm-doctor-*")
	if err != nil {
		result.fail("Temp directory not writable: " + os.TempDir())
	} else {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		result.System.TempWritable = true
	}

	if path, err := state.DefaultPath(); err == nil {
		result.System.StateFile = path
	} else {
		result.warn("No user config directory: build directories will not be remembered")
	}

	result.System.Styles = assets.StyleNames()
}

var statusLines = map[string]string{
	statusReady:    "Status: Ready to build",
	statusWarnings: "Status: Ready with warnings",
	statusErrors:   "Status: Not ready (see errors above)",
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprint(w, "md2chm doctor\n\n")

	fmt.Fprintln(w, "Help compiler")
	if r.Compiler.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Compiler.Path)
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
		if r.Compiler.Configured != "" {
			fmt.Fprintf(w, "          configured: %s\n", r.Compiler.Configured)
		}
		for _, c := range r.Compiler.Candidates {
			fmt.Fprintf(w, "          tried: %s\n", c)
		}
	}

	fmt.Fprint(w, "\nEnvironment\n")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}

	fmt.Fprint(w, "\nSystem\n")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.StateFile != "" {
		fmt.Fprintf(w, "  [OK] State file: %s\n", r.System.StateFile)
	}
	fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.System.Styles, ", "))
	fmt.Fprintln(w)

	printFindings(w, "Warnings:", "[WARN]", r.Warnings)
	printFindings(w, "Errors:", "[ERROR]", r.Errors)
	fmt.Fprintln(w, statusLines[r.Status])
}

func printFindings(w io.Writer, heading, tag string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, heading)
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", tag, item)
	}
	fmt.Fprintln(w)
}
