// Package hhctest provides a fake help compiler for tests.
//
// The fake is the test binary itself: a package's TestMain calls
// RunIfFake first, and tests point an hhc.Invoker at os.Args[0] with the
// environment returned by Env.
package hhctest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables understood by the fake compiler.
const (
	EnvFake     = "GO_MD2CHM_FAKE_HHC"
	EnvExitCode = "GO_MD2CHM_FAKE_HHC_EXIT"
	EnvCreate   = "GO_MD2CHM_FAKE_HHC_CREATE"
)

// Env returns the environment entries that make the test binary behave as a
// compiler exiting with exitCode and, if create is true, writing the
// compiled file named in the project.
func Env(exitCode int, create bool) []string {
	return []string{
		EnvFake + "=1",
		EnvExitCode + "=" + strconv.Itoa(exitCode),
		EnvCreate + "=" + strconv.FormatBool(create),
	}
}

// Binary returns the path of the running test binary.
func Binary() string {
	return os.Args[0]
}

// RunIfFake turns the process into the fake compiler when EnvFake is set.
// It never returns in that case.
func RunIfFake() {
	if os.Getenv(EnvFake) != "1" {
		return
	}
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	code, _ := strconv.Atoi(os.Getenv(EnvExitCode))
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "fake hhc: expected exactly one project file")
		return 2
	}
	project := args[0]
	fmt.Fprintf(os.Stdout, "Microsoft HTML Help Compiler 4.74.8702 (fake)\nCompiling %s\n", project)

	create, _ := strconv.ParseBool(os.Getenv(EnvCreate))
	if !create {
		fmt.Fprintln(os.Stderr, "HHC5003: Error: Compilation failed while compiling (fake).")
		return code
	}

	compiled, err := compiledFile(project)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fake hhc:", err)
		return code
	}
	if err := os.WriteFile(compiled, []byte("ITSF fake"), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "fake hhc:", err)
		return code
	}
	fmt.Fprintf(os.Stdout, "Created %s\n", compiled)
	return code
}

// compiledFile reads the "Compiled file=" option, relative to the project.
func compiledFile(project string) (string, error) {
	f, err := os.Open(project) // #nosec G304 -- test helper
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if name, ok := strings.CutPrefix(line, "Compiled file="); ok {
			return filepath.Join(filepath.Dir(project), name), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no Compiled file option in %s", project)
}
