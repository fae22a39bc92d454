package md2chm

import (
	"context"
	"fmt"
	"time"
)

// Input describes one help build.
type Input struct {
	Source      string // directory tree of Markdown documents
	Destination string // receives pages, project files and the compiled help
	Title       string // help title, also the base name of the .hhc, .hhp and .chm files
	Language    string // project language tag; empty means English (United States)
}

// Result describes a successful build.
type Result struct {
	Artifact     string        // compiled help file
	ContentsFile string        // written .hhc file
	ProjectFile  string        // written .hhp file
	Pages        []string      // generated pages relative to Destination, slash-separated, in discovery order
	Process      ProcessResult // compiler run, for diagnostics
	Duration     time.Duration // whole build
}

// Message returns a one-line summary suitable for a status bar.
func (r *Result) Message() string {
	noun := "pages"
	if len(r.Pages) == 1 {
		noun = "page"
	}
	return fmt.Sprintf("compiled %d %s into %s", len(r.Pages), noun, r.Artifact)
}

// ProcessResult holds what the help compiler printed and returned.
// ExitCode is informational: compilers disagree on its meaning.
type ProcessResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Page is one document handed to a Renderer.
type Page struct {
	Source []byte // raw document bytes
	Path   string // source path relative to the source root, slash-separated
}

// Renderer turns one document into the bytes of one HTML page.
// Implementations must be safe for concurrent use.
type Renderer interface {
	Render(ctx context.Context, page Page) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, page Page) ([]byte, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, page Page) ([]byte, error) {
	return f(ctx, page)
}

// Observer receives notifications from Compile. Calls are serialized, so
// implementations need no locking, but they run on worker goroutines and
// should return quickly.
type Observer interface {
	// OnStart is called once before any work.
	OnStart(input Input)
	// OnProgress reports current out of total rendered documents, or a
	// stage change with current == total.
	OnProgress(current, total int, status string)
	// OnFinish is called once with either a result or an error.
	OnFinish(result *Result, err error)
}

// Opener opens a compiled help file with the platform's default handler.
// Compile does not wait for the viewer and only logs a failure to start it.
type Opener func(path string) error
