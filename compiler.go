package md2chm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-md2chm/internal/fileutil"
	"github.com/alnah/go-md2chm/internal/helpproject"
	"github.com/alnah/go-md2chm/internal/hhc"
	"github.com/alnah/go-md2chm/internal/pipeline"
	"github.com/alnah/go-md2chm/internal/toctree"
)

// Permissions for generated directories and pages.
const (
	dirPermissions  = 0o750
	pagePermissions = 0o644
)

// Compiler turns a Markdown tree into a compiled help file.
// Create with NewCompiler; a Compiler may run several builds, one at a time
// per destination.
type Compiler struct {
	cfg      compilerConfig
	renderer Renderer
	observer Observer
	opener   Opener
	logger   *slog.Logger
	mu       sync.Mutex // serializes observer calls
}

// NewCompiler creates a Compiler. Unless WithRenderer is given, the built-in
// renderer is set up here, so style and asset errors surface early.
func NewCompiler(opts ...Option) (*Compiler, error) {
	c := &Compiler{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.renderer == nil {
		r, err := newHTMLRenderer(&c.cfg)
		if err != nil {
			return nil, err
		}
		c.renderer = r
	}
	return c, nil
}

// Compile runs the whole build described by input.
// The context cancels discovery and rendering; once the help compiler has
// started, Compile waits for it to exit.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Compiler) Compile(ctx context.Context, input Input) (result *Result, err error) {
	start := time.Now()
	c.notifyStart(input)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
			result = nil
		}
		if result != nil {
			result.Duration = time.Since(start)
		}
		c.notifyFinish(result, err)
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	// The compiler runs inside the destination, so paths handed to it must
	// not depend on our working directory.
	if input.Destination, err = filepath.Abs(input.Destination); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	compilerPath, err := hhc.Locate(c.cfg.compilerPath)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("help compiler located", slog.String("path", compilerPath))

	// Step 1: source checks and discovery.
	if !fileutil.DirExists(input.Source) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, input.Source)
	}
	inv, err := discover(ctx, input.Source, input.Destination)
	if err != nil {
		return nil, err
	}
	if len(inv.docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, input.Source)
	}
	c.logger.Info("documents found",
		slog.String("source", input.Source),
		slog.Int("documents", len(inv.docs)),
		slog.Int("directories", len(inv.dirs)))

	// Step 2: mirror directories, then render pages.
	if err := mirrorDirs(input.Destination, inv.dirs); err != nil {
		return nil, err
	}
	pages, err := c.renderAll(ctx, input.Destination, inv.docs)
	if err != nil {
		return nil, err
	}

	// Step 3.
	if len(pages) == 0 {
		return nil, ErrNoArtifacts
	}

	return c.compileProject(input, compilerPath, pages)
}

// compileProject runs steps 4 to 8 on the complete page list.
func (c *Compiler) compileProject(input Input, compilerPath string, pages []string) (*Result, error) {
	total := len(pages)

	// Step 4.
	tree := toctree.Build(pages)

	// Step 5.
	project := helpproject.NewProject(input.Title, pages)
	if input.Language != "" {
		project.Language = input.Language
	}
	contentsPath := filepath.Join(input.Destination, project.ContentsFile)
	c.notifyProgress(total, total, "writing "+project.ContentsFile)
	if err := helpproject.WriteContents(contentsPath, tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDescriptorWrite, err)
	}

	// Step 6.
	projectPath := filepath.Join(input.Destination, input.Title+helpproject.ProjectExt)
	c.notifyProgress(total, total, "writing "+filepath.Base(projectPath))
	if err := helpproject.WriteProject(projectPath, project); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDescriptorWrite, err)
	}

	// Steps 7 and 8.
	artifactPath := filepath.Join(input.Destination, project.CompiledFile)
	c.notifyProgress(total, total, "compiling "+project.CompiledFile)
	invoker := &hhc.Invoker{
		Path:   compilerPath,
		Dir:    input.Destination,
		Env:    c.cfg.compilerEnv,
		Logger: c.logger,
	}
	proc, err := invoker.Compile(projectPath, artifactPath)
	if err != nil {
		return nil, compileError(err, proc)
	}

	c.logger.Info("help compiled",
		slog.String("artifact", artifactPath),
		slog.Int("pages", total),
		slog.Int("status", proc.ExitCode))

	result := &Result{
		Artifact:     artifactPath,
		ContentsFile: contentsPath,
		ProjectFile:  projectPath,
		Pages:        pages,
		Process: ProcessResult{
			Stdout:   proc.Stdout,
			Stderr:   proc.Stderr,
			ExitCode: proc.ExitCode,
			Duration: proc.Duration,
		},
	}
	c.open(artifactPath)
	return result, nil
}

// compileError maps compiler failures to ErrCompilation with the compiler
// output attached.
func compileError(err error, proc hhc.ProcessResult) error {
	if errors.Is(err, hhc.ErrArtifactMissing) {
		msg := fmt.Sprintf("%v (exit status %d: %s)", err, proc.ExitCode, hhc.Describe(proc.ExitCode))
		if summary := proc.Summary(); summary != "" {
			msg += ": " + summary
		}
		return fmt.Errorf("%w: %s", ErrCompilation, msg)
	}
	return fmt.Errorf("%w: %v", ErrCompilation, err)
}

// pageResult holds the outcome of rendering one document.
type pageResult struct {
	page string // generated page relative to the destination
	err  error
}

// renderAll renders docs concurrently and returns the generated page paths
// in discovery order. The first failure in discovery order is returned;
// remaining documents are skipped once a failure occurs.
func (c *Compiler) renderAll(ctx context.Context, dest string, docs []document) ([]string, error) {
	if err := checkPageNames(docs); err != nil {
		return nil, err
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	concurrency := min(c.cfg.workerCount(), len(docs))

	results := make([]pageResult, len(docs))
	var wg sync.WaitGroup
	var doneMu sync.Mutex
	done := 0
	jobs := make(chan int, len(docs))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if workCtx.Err() != nil {
					results[idx] = pageResult{err: workCtx.Err()}
					continue
				}
				results[idx] = c.renderOne(workCtx, dest, docs[idx])
				if results[idx].err != nil {
					cancel()
					continue
				}

				// Held across the notification so counts arrive in order.
				doneMu.Lock()
				done++
				c.notifyProgress(done, len(docs), docs[idx].rel)
				doneMu.Unlock()
			}
		}()
	}

	for i := range docs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	pages := make([]string, len(docs))
	for i, r := range results {
		if r.err == nil {
			pages[i] = r.page
			continue
		}
		// Skips caused by our own cancel hide the failure that triggered it.
		if ctx.Err() == nil && errors.Is(r.err, context.Canceled) {
			continue
		}
		return nil, r.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

// renderOne reads, renders and writes a single document.
// A panicking renderer fails the document instead of the process.
func (c *Compiler) renderOne(ctx context.Context, dest string, doc document) (res pageResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = pageResult{err: fmt.Errorf("%w: %s: internal error: %v", ErrDocumentRender, doc.rel, r)}
		}
	}()

	source, err := os.ReadFile(doc.abs) // #nosec G304 -- discovered under the source root
	if err != nil {
		return pageResult{err: fmt.Errorf("%w: %s: %v", ErrDocumentOpen, doc.rel, err)}
	}

	html, err := c.renderer.Render(ctx, Page{Source: source, Path: doc.rel})
	if err != nil {
		if ctx.Err() != nil {
			return pageResult{err: ctx.Err()}
		}
		return pageResult{err: fmt.Errorf("%w: %s: %v", ErrDocumentRender, doc.rel, err)}
	}

	page := pipeline.PageName(doc.rel)
	target := filepath.Join(dest, filepath.FromSlash(page))
	if err := os.WriteFile(target, html, pagePermissions); err != nil { // #nosec G306 -- pages are meant to be shared
		return pageResult{err: fmt.Errorf("%w: %s: %v", ErrDocumentWrite, page, err)}
	}

	c.logger.Debug("page written",
		slog.String("document", doc.rel),
		slog.String("page", page),
		slog.Int("bytes", len(html)),
		slog.Duration("duration", time.Since(start)))
	return pageResult{page: page}
}

// checkPageNames rejects page names the project files cannot reference:
// two documents mapping to the same page, such as "a.md" and "a.markdown",
// and names outside the character set of the .hhc and .hhp files, whose
// references would point at a file that does not exist.
func checkPageNames(docs []document) error {
	seen := make(map[string]string, len(docs))
	for _, d := range docs {
		name := pipeline.PageName(d.rel)
		if !helpproject.ContentsEncoding.Represents(name) || !helpproject.ProjectEncoding.Represents(name) {
			return fmt.Errorf("%w: %s: page name %s is not representable in %s", ErrDocumentWrite,
				d.rel, name, helpproject.ProjectEncoding)
		}
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s and %s both generate %s", ErrDocumentWrite, prev, d.rel, name)
		}
		seen[key] = d.rel
	}
	return nil
}

// mirrorDirs creates dest and the mirrored subdirectories, parents first.
func mirrorDirs(dest string, dirs []string) error {
	if err := os.MkdirAll(dest, dirPermissions); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrDocumentWrite, dest, err)
	}
	for _, d := range dirs {
		target := filepath.Join(dest, filepath.FromSlash(d))
		if err := os.MkdirAll(target, dirPermissions); err != nil {
			return fmt.Errorf("%w: creating %s: %v", ErrDocumentWrite, target, err)
		}
	}
	return nil
}

// validateInput checks that required fields are present and valid.
func validateInput(input Input) error {
	switch {
	case strings.TrimSpace(input.Source) == "":
		return ErrEmptySource
	case strings.TrimSpace(input.Destination) == "":
		return ErrEmptyDestination
	case strings.TrimSpace(input.Title) == "":
		return ErrEmptyTitle
	case strings.ContainsAny(input.Title, `/\`) || input.Title == "." || input.Title == "..":
		return fmt.Errorf("%w: %q", ErrInvalidTitle, input.Title)
	}
	return nil
}

// open starts the viewer without waiting for it.
func (c *Compiler) open(artifact string) {
	if c.opener == nil {
		return
	}
	if err := c.opener(artifact); err != nil {
		c.logger.Warn("could not open compiled help", slog.String("path", artifact), slog.Any("error", err))
	}
}

func (c *Compiler) notifyStart(input Input) {
	if c.observer == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer.OnStart(input)
}

func (c *Compiler) notifyProgress(current, total int, status string) {
	if c.observer == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer.OnProgress(current, total, status)
}

func (c *Compiler) notifyFinish(result *Result, err error) {
	if c.observer == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer.OnFinish(result, err)
}
