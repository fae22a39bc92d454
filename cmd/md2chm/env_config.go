package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-md2chm/internal/config"
	"github.com/alnah/go-md2chm/internal/yamlutil"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "MD2CHM_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MD2CHM_CONFIG: config file name or path
	Compiler   string // MD2CHM_COMPILER: help compiler executable
	Style      string // MD2CHM_STYLE: CSS style name, path or inline CSS
	InputDir   string // MD2CHM_INPUT_DIR: default source directory
	OutputDir  string // MD2CHM_OUTPUT_DIR: default destination directory
	Title      string // MD2CHM_TITLE: help title
	Language   string // MD2CHM_LANGUAGE: project language
	AssetPath  string // MD2CHM_ASSET_PATH: custom asset directory
	Workers    int    // MD2CHM_WORKERS: parallel workers
	Open       *bool  // MD2CHM_OPEN: open the compiled file (nil = unset)
}

// knownEnvVars lists valid MD2CHM_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2CHM_CONFIG":     true,
	"MD2CHM_COMPILER":   true,
	"MD2CHM_STYLE":      true,
	"MD2CHM_INPUT_DIR":  true,
	"MD2CHM_OUTPUT_DIR": true,
	"MD2CHM_TITLE":      true,
	"MD2CHM_LANGUAGE":   true,
	"MD2CHM_ASSET_PATH": true,
	"MD2CHM_WORKERS":    true,
	"MD2CHM_OPEN":       true,
	"MD2CHM_CONTAINER":  true, // doctor override
}

// loadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error; a malformed one is reported as a warning.
func loadDotEnv(path string, w io.Writer) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "warning: ignoring %s: %v\n", path, err)
	}
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized MD2CHM_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2CHM_CONFIG"),
		Compiler:   os.Getenv("MD2CHM_COMPILER"),
		Style:      os.Getenv("MD2CHM_STYLE"),
		InputDir:   os.Getenv("MD2CHM_INPUT_DIR"),
		OutputDir:  os.Getenv("MD2CHM_OUTPUT_DIR"),
		Title:      os.Getenv("MD2CHM_TITLE"),
		Language:   os.Getenv("MD2CHM_LANGUAGE"),
		AssetPath:  os.Getenv("MD2CHM_ASSET_PATH"),
	}

	// Parse int for workers
	if workers := os.Getenv("MD2CHM_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	// Parse bool for open
	if open := os.Getenv("MD2CHM_OPEN"); open != "" {
		if b, err := strconv.ParseBool(open); err == nil {
			cfg.Open = &b
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2CHM_* variables.
// Helps catch typos like MD2CHM_OUTPUT instead of MD2CHM_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables replace config file values; CLI flags are applied later via
// mergeFlags. This ensures: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Compiler != "" {
		cfg.Compiler.Path = env.Compiler
	}
	if env.Style != "" {
		cfg.CSS.Style = env.Style
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Title != "" {
		cfg.Project.Title = env.Title
	}
	if env.Language != "" {
		cfg.Project.Language = yamlutil.Scalar(env.Language)
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.Open != nil {
		cfg.Viewer.Open = *env.Open
	}
}
