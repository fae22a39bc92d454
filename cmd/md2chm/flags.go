package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// projectFlags holds help project descriptor flags.
type projectFlags struct {
	title    string
	language string
}

// assetFlags holds page styling flags.
type assetFlags struct {
	style     string // Name, file path or inline CSS
	assetPath string // Override asset directory
	noStyle   bool   // Disable CSS styling
}

// viewerFlags holds flags controlling the viewer after a build.
type viewerFlags struct {
	open   bool
	noOpen bool
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common     commonFlags
	output     string
	compiler   string
	workers    int
	force      bool
	noRemember bool
	project    projectFlags
	assets     assetFlags
	viewer     viewerFlags
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json     bool
	compiler string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show compiler output and timing")
}

// addProjectFlags adds help project flags to a FlagSet.
func addProjectFlags(fs *flag.FlagSet, f *projectFlags) {
	fs.StringVarP(&f.title, "title", "t", "", "help title and output base name (default: source directory name)")
	fs.StringVar(&f.language, "language", "", "project language (default: \"0x409 English (United States)\")")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name, file path or inline CSS")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// addViewerFlags adds viewer flags to a FlagSet.
func addViewerFlags(fs *flag.FlagSet, f *viewerFlags) {
	fs.BoolVar(&f.open, "open", false, "open the compiled help file when done")
	fs.BoolVar(&f.noOpen, "no-open", false, "do not open the compiled help file")
}

// newBuildFlagSet registers every build flag on a new FlagSet bound to f.
// Shared by parsing and shell completion.
func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "destination directory")
	fs.StringVar(&f.compiler, "compiler", "", "help compiler executable")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVarP(&f.force, "force", "f", false, "clear a non-empty destination first")
	fs.BoolVar(&f.noRemember, "no-remember", false, "do not remember the directories of this build")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addProjectFlags(fs, &f.project)
	addAssetFlags(fs, &f.assets)
	addViewerFlags(fs, &f.viewer)

	return fs
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newBuildFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// newDoctorFlagSet registers the doctor flags on a new FlagSet bound to f.
func newDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.StringVar(&f.compiler, "compiler", "", "help compiler executable to check")
	return fs
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newDoctorFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
