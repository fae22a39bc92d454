package md2chm

import (
	"log/slog"
	"runtime"
)

// Option configures a Compiler.
type Option func(*Compiler)

// compilerConfig holds options applied by NewCompiler.
type compilerConfig struct {
	compilerPath  string
	compilerEnv   []string
	workers       int
	styleInput    string
	noStyle       bool
	assetPath     string
	resolvedStyle string
}

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) Option {
	return func(c *Compiler) {
		c.observer = o
	}
}

// WithRenderer replaces the built-in Markdown renderer.
// Style and asset options are ignored when a renderer is set.
func WithRenderer(r Renderer) Option {
	return func(c *Compiler) {
		c.renderer = r
	}
}

// WithCompilerPath sets the help compiler executable, as a path or a command
// name on PATH. Empty means search the default locations.
func WithCompilerPath(path string) Option {
	return func(c *Compiler) {
		c.cfg.compilerPath = path
	}
}

// WithCompilerEnv adds environment entries ("KEY=value") for the compiler process.
func WithCompilerEnv(env ...string) Option {
	return func(c *Compiler) {
		c.cfg.compilerEnv = append(c.cfg.compilerEnv, env...)
	}
}

// WithWorkers sets how many documents are rendered concurrently.
// Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Compiler) {
		c.cfg.workers = n
	}
}

// WithStyle sets the page stylesheet: a style name, a CSS file path, or
// inline CSS. Empty means the default style.
func WithStyle(style string) Option {
	return func(c *Compiler) {
		c.cfg.styleInput = style
	}
}

// WithoutStyle disables the page stylesheet.
func WithoutStyle() Option {
	return func(c *Compiler) {
		c.cfg.noStyle = true
	}
}

// WithAssetPath sets a directory of custom styles and templates that take
// precedence over the built-in ones.
func WithAssetPath(path string) Option {
	return func(c *Compiler) {
		c.cfg.assetPath = path
	}
}

// WithOpener requests that the compiled file be opened after a successful build.
func WithOpener(open Opener) Option {
	return func(c *Compiler) {
		c.opener = open
	}
}

func (cfg compilerConfig) workerCount() int {
	if cfg.workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return cfg.workers
}
