// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"runtime"
	"strings"
)

// GOOS is the platform used to tailor compiler hints. Tests may replace it.
var GOOS = runtime.GOOS

// ForCompilerNotFound returns hints for a missing help compiler.
func ForCompilerNotFound() string {
	hints := []string{"pass --compiler /path/to/compiler or set MD2CHM_COMPILER"}
	if GOOS == "windows" {
		hints = append(hints, `install Microsoft HTML Help Workshop (hhc.exe) under %ProgramFiles(x86)%`)
	} else {
		hints = append(hints, "install chmcmd (Free Pascal) or run hhc.exe through Wine")
	}
	return formatHints(hints)
}

// ForCompilation returns hints for a compile that produced no artifact.
func ForCompilation() string {
	return format("rerun with --verbose to see the compiler output")
}

// ForNoDocuments returns hints for a source directory without documents.
func ForNoDocuments(extensions []string) string {
	if len(extensions) == 0 {
		return ""
	}
	return format("only files ending in " + strings.Join(extensions, ", ") + " are converted")
}

// ForDestinationNotEmpty returns hints for a destination holding earlier output.
func ForDestinationNotEmpty() string {
	return format("use --force to clear it, or choose another --output directory")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2chm/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2chm") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
