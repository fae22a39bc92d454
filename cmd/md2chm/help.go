package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2chm <command> [flags] [args]")
	fmt.Fprintln(w, "       md2chm <source> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Compile a Markdown directory into a CHM help file")
	fmt.Fprintln(w, "  doctor      Check that a help compiler is available")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2chm help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2chm build <source> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert every .md and .markdown file under <source> to HTML, write the")
	fmt.Fprintln(w, "contents (.hhc) and project (.hhp) files, and run the help compiler.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  source    Markdown directory (optional if config, env or the last build has one)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Destination directory")
	fmt.Fprintln(w, "  -f, --force               Clear a non-empty destination first")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --no-remember         Do not remember the directories of this build")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Project:")
	fmt.Fprintln(w, "  -t, --title <s>           Help title and output base name (default: source name)")
	fmt.Fprintln(w, "      --language <s>        Language, e.g. \"0x409 English (United States)\"")
	fmt.Fprintln(w, "      --compiler <path>     Help compiler (hhc.exe, chmcmd)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Style name, CSS file path or inline CSS")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Viewer:")
	fmt.Fprintln(w, "      --open                Open the compiled help file when done")
	fmt.Fprintln(w, "      --no-open             Do not open it, even if configured")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show compiler output and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2CHM_CONFIG, MD2CHM_COMPILER, MD2CHM_STYLE, MD2CHM_INPUT_DIR,")
	fmt.Fprintln(w, "  MD2CHM_OUTPUT_DIR, MD2CHM_TITLE, MD2CHM_LANGUAGE, MD2CHM_ASSET_PATH,")
	fmt.Fprintln(w, "  MD2CHM_WORKERS, MD2CHM_OPEN. A .env file in the working directory is read first.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2chm doctor [--json] [--compiler <path>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that a help compiler can be found and the system is ready to build.")
}

// runHelp prints help for a specific command and returns the exit code.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2chm version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2chm help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
