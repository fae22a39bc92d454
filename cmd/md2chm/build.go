package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	md2chm "github.com/alnah/go-md2chm"
	"github.com/alnah/go-md2chm/internal/config"
	"github.com/alnah/go-md2chm/internal/fileutil"
	"github.com/alnah/go-md2chm/internal/hhc"
	"github.com/alnah/go-md2chm/internal/hints"
	"github.com/alnah/go-md2chm/internal/state"
	"github.com/alnah/go-md2chm/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage                     = errors.New("invalid usage")
	ErrNoInput                   = errors.New("no source directory specified")
	ErrNoOutput                  = errors.New("no destination directory specified")
	ErrInvalidWorkerCount        = errors.New("invalid worker count")
	ErrConflictingFlags          = errors.New("conflicting flags")
	ErrDestinationNotEmpty       = errors.New("destination directory is not empty")
	ErrDestinationOverlapsSource = errors.New("destination must not contain the source directory")
	ErrOutputDirectory           = errors.New("cannot prepare destination directory")
)

// dirPermissions is used for the destination directory.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// runBuild orchestrates one help build from command line arguments.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printBuildUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one source directory, got %d arguments", ErrUsage, len(positional))
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if flags.viewer.open && flags.viewer.noOpen {
		return fmt.Errorf("%w: --open and --no-open", ErrConflictingFlags)
	}

	logger := newLogger(env.Stderr, flags.common.verbose)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	// Load configuration, then layer env vars and flags on top.
	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	store := stateStore(env, logger)
	remembered := loadState(store, logger)

	input, err := resolveInput(positional, cfg, remembered)
	if err != nil {
		return err
	}

	// Fail on a missing compiler before touching the destination.
	if _, err := hhc.Locate(cfg.Compiler.Path); err != nil {
		return err
	}
	if err := prepareDestination(input.Source, input.Destination, flags.force); err != nil {
		return err
	}

	opts := []md2chm.Option{
		md2chm.WithLogger(logger),
		md2chm.WithCompilerPath(cfg.Compiler.Path),
		md2chm.WithCompilerEnv(env.CompilerEnv...),
		md2chm.WithWorkers(cfg.Workers),
		md2chm.WithAssetPath(cfg.Assets.BasePath),
	}
	if flags.assets.noStyle {
		opts = append(opts, md2chm.WithoutStyle())
	} else {
		opts = append(opts, md2chm.WithStyle(cfg.CSS.Style))
	}
	if !flags.common.quiet {
		opts = append(opts, md2chm.WithObserver(newProgressPrinter(env, flags.common.verbose)))
	}
	if cfg.Viewer.Open && env.Opener != nil {
		opts = append(opts, md2chm.WithOpener(env.Opener))
	}

	compiler, err := md2chm.NewCompiler(opts...)
	if err != nil {
		return err
	}
	result, err := compiler.Compile(ctx, input)
	if err != nil {
		return err
	}

	printResult(env.Stdout, result, flags.common.quiet, flags.common.verbose)

	if store != nil && !flags.noRemember {
		if err := store.Remember(input.Source, input.Destination, input.Title); err != nil {
			logger.Warn("could not remember directories", slog.Any("error", err))
		}
	}
	return nil
}

// newLogger returns a text logger on w: debug level when verbose, warnings
// otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the config named by the flag, else by the environment.
// Neither set means defaults.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *buildFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.compiler != "" {
		cfg.Compiler.Path = flags.compiler
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.project.title != "" {
		cfg.Project.Title = flags.project.title
	}
	if flags.project.language != "" {
		cfg.Project.Language = yamlutil.Scalar(flags.project.language)
	}
	if flags.assets.style != "" {
		cfg.CSS.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	if flags.viewer.open {
		cfg.Viewer.Open = true
	}
	if flags.viewer.noOpen {
		cfg.Viewer.Open = false
	}
}

// validateWorkers checks the --workers range. 0 means auto.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// stateStore returns the remembered-directories store, or nil when no
// location is available.
func stateStore(env *Environment, logger *slog.Logger) *state.Store {
	path := env.StatePath
	if path == "" {
		var err error
		if path, err = state.DefaultPath(); err != nil {
			logger.Debug("directories will not be remembered", slog.Any("error", err))
			return nil
		}
	}
	return state.NewStore(path)
}

// loadState returns remembered values; an unreadable state file is ignored.
func loadState(store *state.Store, logger *slog.Logger) state.State {
	if store == nil {
		return state.State{}
	}
	st, err := store.Load()
	if err != nil {
		logger.Warn("ignoring remembered directories", slog.Any("error", err))
		return state.State{}
	}
	return st
}

// resolveInput fills the build input from the source argument, merged
// config, and remembered state, in that order of precedence.
// The title defaults to the remembered title for the same source, then to
// the source directory name.
func resolveInput(positional []string, cfg *config.Config, remembered state.State) (md2chm.Input, error) {
	input := md2chm.Input{
		Destination: cfg.Output.DefaultDir,
		Title:       cfg.Project.Title,
		Language:    string(cfg.Project.Language),
	}

	switch {
	case len(positional) > 0:
		input.Source = positional[0]
	case cfg.Input.DefaultDir != "":
		input.Source = cfg.Input.DefaultDir
	case remembered.LastSource != "":
		input.Source = remembered.LastSource
	default:
		return md2chm.Input{}, ErrNoInput
	}

	if input.Destination == "" {
		input.Destination = remembered.LastDestination
	}
	if input.Destination == "" {
		return md2chm.Input{}, ErrNoOutput
	}

	if input.Title == "" {
		input.Title = defaultTitle(input.Source, remembered)
	}
	return input, nil
}

// defaultTitle picks a title when none is configured.
func defaultTitle(source string, remembered state.State) string {
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = filepath.Clean(source)
	}
	if remembered.LastTitle != "" && abs == remembered.LastSource {
		return remembered.LastTitle
	}
	return filepath.Base(abs)
}

// prepareDestination applies the destination policy: an empty or missing
// directory is used as is, a non-empty one only with force, after clearing.
func prepareDestination(source, dest string, force bool) error {
	if overlaps(dest, source) {
		return fmt.Errorf("%w: %s contains %s", ErrDestinationOverlapsSource, dest, source)
	}

	empty, err := fileutil.IsDirEmpty(dest)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDirectory, err)
	}
	if empty {
		return nil
	}
	if !force {
		return fmt.Errorf("%w: %s", ErrDestinationNotEmpty, dest)
	}
	if err := fileutil.ResetDir(dest, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDirectory, err)
	}
	return nil
}

// overlaps reports whether dir is source or one of its ancestors, so that
// clearing dir would delete documents.
func overlaps(dir, source string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absSource, err := filepath.Abs(source)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absSource)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// progressPrinter reports build progress as status lines.
// The Compiler serializes observer calls.
type progressPrinter struct {
	w       io.Writer
	verbose bool
	now     func() time.Time
	start   time.Time
}

func newProgressPrinter(env *Environment, verbose bool) *progressPrinter {
	now := env.Now
	if now == nil {
		now = time.Now
	}
	return &progressPrinter{w: env.Stdout, verbose: verbose, now: now}
}

func (p *progressPrinter) OnStart(input md2chm.Input) {
	p.start = p.now()
	fmt.Fprintf(p.w, "Building %s from %s\n", input.Title, input.Source)
}

func (p *progressPrinter) OnProgress(current, total int, status string) {
	if p.verbose {
		fmt.Fprintf(p.w, "[%d/%d] %s (%v)\n", current, total, status, p.now().Sub(p.start).Round(time.Millisecond))
		return
	}
	fmt.Fprintf(p.w, "[%d/%d] %s\n", current, total, status)
}

func (p *progressPrinter) OnFinish(*md2chm.Result, error) {}

// printResult outputs the build summary.
func printResult(w io.Writer, r *md2chm.Result, quiet, verbose bool) {
	if quiet {
		return
	}
	fmt.Fprintln(w, r.Message())
	if verbose {
		fmt.Fprintf(w, "total %v, compiler %v, exit status %d (%s)\n",
			r.Duration.Round(time.Millisecond),
			r.Process.Duration.Round(time.Millisecond),
			r.Process.ExitCode,
			hhc.Describe(r.Process.ExitCode))
	}
}
