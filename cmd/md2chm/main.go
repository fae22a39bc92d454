package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	md2chm "github.com/alnah/go-md2chm"
	"github.com/alnah/go-md2chm/internal/assets"
	"github.com/alnah/go-md2chm/internal/fileutil"
	"github.com/alnah/go-md2chm/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for a first argument that is neither a
// command nor a source directory.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	env := DefaultEnv()

	// Existing environment variables win over .env entries.
	loadDotEnv(".env", env.Stderr)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, env))
}

// runMain dispatches to a command and returns the process exit code.
// A first argument that is not a command starts a build, so
// "md2chm docs -o out" works like "md2chm build docs -o out".
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		if !looksLikeBuildArg(cmd) {
			fmt.Fprintf(env.Stderr, "%v: %s\n\n", ErrUnknownCommand, cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
		cmd, rest = "build", args[1:]
	}

	switch cmd {
	case "build":
		ctx, stop := notifyContext(context.Background())
		defer stop()
		return reportError(env.Stderr, runBuild(ctx, rest, env))
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		return reportError(env.Stderr, runCompletion(rest, env))
	case "version":
		fmt.Fprintf(env.Stdout, "go-md2chm %s\n", Version)
		return ExitSuccess
	default: // help
		return runHelp(rest, env)
	}
}

// commands lists the command names runMain dispatches.
var commands = []string{"build", "doctor", "completion", "version", "help"}

// isCommand reports whether arg names a command. Matching is case sensitive.
func isCommand(arg string) bool {
	for _, c := range commands {
		if arg == c {
			return true
		}
	}
	return false
}

// looksLikeBuildArg reports whether arg can start an implicit build: a flag,
// or something that reads as a directory path.
func looksLikeBuildArg(arg string) bool {
	switch {
	case arg == "":
		return false
	case strings.HasPrefix(arg, "-"):
		return true
	case arg == "." || arg == "..":
		return true
	case fileutil.IsFilePath(arg):
		return true
	}
	return fileutil.DirExists(arg)
}

// hasVerboseFlag scans raw arguments for -v or --verbose before parsing.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}

// reportError prints err with hints and maps it to an exit code.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// hintFor returns actionable hints for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, md2chm.ErrCompilerNotFound):
		return hints.ForCompilerNotFound()
	case errors.Is(err, md2chm.ErrCompilation):
		return hints.ForCompilation()
	case errors.Is(err, md2chm.ErrNoDocuments):
		return hints.ForNoDocuments(fileutil.MarkdownExtensions)
	case errors.Is(err, ErrDestinationNotEmpty):
		return hints.ForDestinationNotEmpty()
	case errors.Is(err, ErrOutputDirectory):
		return hints.ForOutputDirectory()
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	}
	return ""
}
