package md2chm

// Notes:
// - The help compiler is the test binary itself (see internal/hhc/hhctest);
//   TestMain hands control to it when the fake environment is set.
// - Every test builds into its own t.TempDir(), so tests run in parallel.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-md2chm/internal/helpproject"
	"github.com/alnah/go-md2chm/internal/hhc/hhctest"
	"github.com/alnah/go-md2chm/internal/toctree"
)

func TestMain(m *testing.M) {
	hhctest.RunIfFake()
	os.Exit(m.Run())
}

// writeTree creates files under root from a map of slash paths to contents.
func writeTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", p, err)
		}
	}
}

// fakeCompiler returns options pointing the Compiler at the fake compiler.
func fakeCompiler(exitCode int, create bool) []Option {
	return []Option{
		WithCompilerPath(hhctest.Binary()),
		WithCompilerEnv(hhctest.Env(exitCode, create)...),
	}
}

// newTestCompiler creates a Compiler or fails the test.
func newTestCompiler(t testing.TB, opts ...Option) *Compiler {
	t.Helper()
	c, err := NewCompiler(opts...)
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	return c
}

// recordingObserver records every notification.
type recordingObserver struct {
	mu       sync.Mutex
	starts   int
	progress []string
	finishes int
	result   *Result
	err      error
}

func (o *recordingObserver) OnStart(Input) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts++
}

func (o *recordingObserver) OnProgress(current, total int, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = append(o.progress, fmt.Sprintf("%d/%d %s", current, total, status))
}

func (o *recordingObserver) OnFinish(result *Result, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishes++
	o.result = result
	o.err = err
}

// ---------------------------------------------------------------------------
// TestCompile - End to end with a fake compiler
// ---------------------------------------------------------------------------

func TestCompile_EndToEnd(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{
		"intro.md":        "# Introduction\n\nSee [chapter one](chapters/one.md#start).\n",
		"chapters/one.md": "# One\n\nFirst chapter.\n",
		"notes.txt":       "not a document",
	})

	c := newTestCompiler(t, fakeCompiler(1, true)...)
	result, err := c.Compile(context.Background(), Input{
		Source:      src,
		Destination: dst,
		Title:       "Manual",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	wantPages := []string{"intro.html", "chapters/one.html"}
	if strings.Join(result.Pages, ",") != strings.Join(wantPages, ",") {
		t.Errorf("Pages = %v, want %v", result.Pages, wantPages)
	}
	if result.Artifact != filepath.Join(dst, "Manual.chm") {
		t.Errorf("Artifact = %q, want %q", result.Artifact, filepath.Join(dst, "Manual.chm"))
	}
	if result.Process.ExitCode != 1 {
		t.Errorf("Process.ExitCode = %d, want 1", result.Process.ExitCode)
	}
	if result.Duration <= 0 {
		t.Error("Duration should be positive")
	}

	for _, page := range wantPages {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(page))); err != nil {
			t.Errorf("page %s missing: %v", page, err)
		}
	}

	intro, err := os.ReadFile(filepath.Join(dst, "intro.html"))
	if err != nil {
		t.Fatalf("reading intro.html: %v", err)
	}
	for _, want := range []string{"<title>Introduction</title>", `href="chapters/one.html#start"`} {
		if !strings.Contains(string(intro), want) {
			t.Errorf("intro.html missing %q", want)
		}
	}

	project, err := os.ReadFile(result.ProjectFile)
	if err != nil {
		t.Fatalf("reading project: %v", err)
	}
	for _, want := range []string{
		"Default topic=intro.html\r\n",
		"Contents file=Manual.hhc\r\n",
		"[FILES]\r\nintro.html\r\nchapters/one.html\r\n",
	} {
		if !strings.Contains(string(project), want) {
			t.Errorf("project missing %q:\n%s", want, project)
		}
	}

	contents, err := os.ReadFile(result.ContentsFile)
	if err != nil {
		t.Fatalf("reading contents: %v", err)
	}
	wantContents := helpproject.RenderContents(toctree.Build(wantPages))
	if helpproject.ContentsEncoding.Decode(contents) != wantContents {
		t.Errorf("contents file differs from the rendered tree:\n%s", contents)
	}
}

func TestCompile_TreeShape(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"intro.md":        "# Intro\n",
		"chapters/one.md": "# One\n",
	})

	c := newTestCompiler(t, fakeCompiler(0, true)...)
	result, err := c.Compile(context.Background(), Input{Source: src, Destination: t.TempDir(), Title: "Manual"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got := toctree.Build(result.Pages).String()
	want := "intro.html -> intro.html\nchapters\n  one.html -> chapters/one.html\n"
	if got != want {
		t.Errorf("tree =\n%s\nwant\n%s", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestCompile - Failures
// ---------------------------------------------------------------------------

func TestCompile_NoDocuments(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"readme.txt": "text"})

	c := newTestCompiler(t, fakeCompiler(1, true)...)
	_, err := c.Compile(context.Background(), Input{Source: src, Destination: dst, Title: "Manual"})
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("error = %v, want ErrNoDocuments", err)
	}

	for _, name := range []string{"Manual.hhp", "Manual.hhc", "Manual.chm"} {
		if _, err := os.Stat(filepath.Join(dst, name)); !os.IsNotExist(err) {
			t.Errorf("%s should not exist", name)
		}
	}
}

func TestCompile_ArtifactMissing(t *testing.T) {
	t.Parallel()

	for _, exitCode := range []int{0, 1, 2} {
		t.Run(fmt.Sprintf("exit %d", exitCode), func(t *testing.T) {
			t.Parallel()

			src := t.TempDir()
			dst := t.TempDir()
			writeTree(t, src, map[string]string{"a.md": "# A\n"})

			c := newTestCompiler(t, fakeCompiler(exitCode, false)...)
			_, err := c.Compile(context.Background(), Input{Source: src, Destination: dst, Title: "Manual"})
			if !errors.Is(err, ErrCompilation) {
				t.Fatalf("error = %v, want ErrCompilation", err)
			}
			if !strings.Contains(err.Error(), "HHC5003") {
				t.Errorf("error should quote compiler output, got %v", err)
			}
			if _, err := os.Stat(filepath.Join(dst, "Manual.hhp")); err != nil {
				t.Errorf("project file should have been written: %v", err)
			}
		})
	}
}

func TestCompile_StaleArtifact(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "# A\n"})
	stale := filepath.Join(dst, "Manual.chm")
	if err := os.WriteFile(stale, []byte("previous build"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCompiler(t, fakeCompiler(1, false)...)
	result, err := c.Compile(context.Background(), Input{Source: src, Destination: dst, Title: "Manual"})
	if !errors.Is(err, ErrCompilation) {
		t.Fatalf("Compile() = %+v, %v, want ErrCompilation", result, err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if _, err := os.Stat(stale); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("previous artifact should be gone, stat error = %v", err)
	}
}

func TestCompile_InvalidInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"empty source", Input{Destination: dir, Title: "T"}, ErrEmptySource},
		{"empty destination", Input{Source: dir, Title: "T"}, ErrEmptyDestination},
		{"empty title", Input{Source: dir, Destination: dir}, ErrEmptyTitle},
		{"blank title", Input{Source: dir, Destination: dir, Title: "  "}, ErrEmptyTitle},
		{"title with slash", Input{Source: dir, Destination: dir, Title: "a/b"}, ErrInvalidTitle},
		{"title with backslash", Input{Source: dir, Destination: dir, Title: `a\b`}, ErrInvalidTitle},
		{"missing source", Input{Source: filepath.Join(dir, "missing"), Destination: dir, Title: "T"}, ErrSourceNotFound},
	}

	c := newTestCompiler(t, fakeCompiler(1, true)...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := c.Compile(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	_, err := c.Compile(context.Background(), Input{Source: dir, Title: "T"})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("empty destination should be a configuration error, got %v", err)
	}
}

func TestCompile_CompilerNotFound(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "# A\n"})

	c := newTestCompiler(t, WithCompilerPath(filepath.Join(t.TempDir(), "no-such-hhc")))
	_, err := c.Compile(context.Background(), Input{Source: src, Destination: dst, Title: "Manual"})
	if !errors.Is(err, ErrCompilerNotFound) {
		t.Fatalf("error = %v, want ErrCompilerNotFound", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "a.html")); !os.IsNotExist(err) {
		t.Error("no page should be written before the compiler is located")
	}
}

func TestCompile_RendererFailure(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"a.md": "ok",
		"b.md": "fail",
		"c.md": "ok",
	})

	renderer := RendererFunc(func(_ context.Context, p Page) ([]byte, error) {
		if string(p.Source) == "fail" {
			return nil, errors.New("boom")
		}
		return []byte("<p>ok</p>"), nil
	})

	opts := append(fakeCompiler(1, true), WithRenderer(renderer), WithWorkers(3))
	c := newTestCompiler(t, opts...)
	_, err := c.Compile(context.Background(), Input{Source: src, Destination: t.TempDir(), Title: "Manual"})
	if !errors.Is(err, ErrDocumentRender) {
		t.Fatalf("error = %v, want ErrDocumentRender", err)
	}
	if !strings.Contains(err.Error(), "b.md") {
		t.Errorf("error should name the failing document, got %v", err)
	}
}

func TestCompile_PageCollision(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"a.md":       "# A\n",
		"a.markdown": "# A again\n",
	})

	c := newTestCompiler(t, fakeCompiler(1, true)...)
	_, err := c.Compile(context.Background(), Input{Source: src, Destination: t.TempDir(), Title: "Manual"})
	if !errors.Is(err, ErrDocumentWrite) {
		t.Fatalf("error = %v, want ErrDocumentWrite", err)
	}
}

func TestCompile_PageNameOutsideLatin1(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{
		"intro.md": "# Intro\n",
		"Обзор.md": "# Overview\n",
	})

	c := newTestCompiler(t, fakeCompiler(1, true)...)
	_, err := c.Compile(context.Background(), Input{Source: src, Destination: dst, Title: "Manual"})
	if !errors.Is(err, ErrDocumentWrite) {
		t.Fatalf("error = %v, want ErrDocumentWrite", err)
	}
	if !strings.Contains(err.Error(), "Обзор.md") {
		t.Errorf("error should name the document, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "Manual.hhp")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("project file should not be written, stat error = %v", err)
	}
}

func TestCompile_Canceled(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "# A\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestCompiler(t, fakeCompiler(1, true)...)
	_, err := c.Compile(ctx, Input{Source: src, Destination: t.TempDir(), Title: "Manual"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestCompile_RecoversPanic(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "# A\n"})

	renderer := RendererFunc(func(context.Context, Page) ([]byte, error) {
		panic("renderer exploded")
	})

	c := newTestCompiler(t, append(fakeCompiler(1, true), WithRenderer(renderer))...)
	_, err := c.Compile(context.Background(), Input{Source: src, Destination: t.TempDir(), Title: "Manual"})
	if !errors.Is(err, ErrDocumentRender) {
		t.Fatalf("error = %v, want ErrDocumentRender", err)
	}
	if !strings.Contains(err.Error(), "internal error: renderer exploded") {
		t.Errorf("error should carry the panic value, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestCompile - Encoding, ordering and options
// ---------------------------------------------------------------------------

func TestCompile_EncodesReservedCharacters(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"C# notes.md": "# C#\n",
		"100%.md":     "# Percent\n",
	})

	c := newTestCompiler(t, fakeCompiler(1, true)...)
	result, err := c.Compile(context.Background(), Input{Source: src, Destination: t.TempDir(), Title: "Manual"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := []string{"100[_PERCENT_].html", "C[_SHARP_] notes.html"}
	if strings.Join(result.Pages, "|") != strings.Join(want, "|") {
		t.Errorf("Pages = %v, want %v", result.Pages, want)
	}
	for _, page := range result.Pages {
		if strings.ContainsAny(page, "#%") {
			t.Errorf("page %q contains a reserved character", page)
		}
	}

	contents, err := os.ReadFile(result.ContentsFile)
	if err != nil {
		t.Fatalf("reading contents: %v", err)
	}
	if !strings.Contains(string(contents), `value="C# notes"`) {
		t.Errorf("contents should show the decoded title:\n%s", contents)
	}
}

func TestCompile_WorkerCountDoesNotChangeOrder(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for i := range 20 {
		files[fmt.Sprintf("doc%02d.md", i)] = fmt.Sprintf("# Doc %d\n", i)
		files[fmt.Sprintf("sub/part%02d.md", i)] = fmt.Sprintf("# Part %d\n", i)
	}
	src := t.TempDir()
	writeTree(t, src, files)

	var want []string
	for _, workers := range []int{1, 4, 16} {
		opts := append(fakeCompiler(1, true), WithWorkers(workers))
		c := newTestCompiler(t, opts...)
		result, err := c.Compile(context.Background(), Input{Source: src, Destination: t.TempDir(), Title: "Manual"})
		if err != nil {
			t.Fatalf("workers=%d: Compile: %v", workers, err)
		}
		if want == nil {
			want = result.Pages
			continue
		}
		if strings.Join(result.Pages, ",") != strings.Join(want, ",") {
			t.Errorf("workers=%d: Pages = %v, want %v", workers, result.Pages, want)
		}
	}
	if len(want) != 40 {
		t.Fatalf("got %d pages, want 40", len(want))
	}
	if want[0] != "doc00.html" || want[20] != "sub/part00.html" {
		t.Errorf("documents should come before subdirectories, got %v", want)
	}
}

func TestCompile_Language(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "# A\n"})

	c := newTestCompiler(t, fakeCompiler(1, true)...)
	result, err := c.Compile(context.Background(), Input{
		Source:      src,
		Destination: t.TempDir(),
		Title:       "Manual",
		Language:    "0x407 German (Germany)",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	project, err := os.ReadFile(result.ProjectFile)
	if err != nil {
		t.Fatalf("reading project: %v", err)
	}
	if !strings.Contains(string(project), "Language=0x407 German (Germany)\r\n") {
		t.Errorf("project should carry the language:\n%s", project)
	}
}

func TestCompile_DestinationInsideSource(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "# A\n"})
	dst := filepath.Join(src, "out")
	writeTree(t, dst, map[string]string{"stale.md": "# Stale\n"})

	c := newTestCompiler(t, fakeCompiler(1, true)...)
	result, err := c.Compile(context.Background(), Input{Source: src, Destination: dst, Title: "Manual"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if strings.Join(result.Pages, ",") != "a.html" {
		t.Errorf("Pages = %v, want [a.html]", result.Pages)
	}
}

func TestCompile_ObserverAndOpener(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "# A\n", "b.md": "# B\n"})

	obs := &recordingObserver{}
	var opened string
	opener := func(path string) error {
		opened = path
		return errors.New("no viewer")
	}

	opts := append(fakeCompiler(1, true), WithObserver(obs), WithOpener(opener))
	c := newTestCompiler(t, opts...)
	result, err := c.Compile(context.Background(), Input{Source: src, Destination: t.TempDir(), Title: "Manual"})
	if err != nil {
		t.Fatalf("Compile should succeed when the viewer fails: %v", err)
	}
	if opened != result.Artifact {
		t.Errorf("opened %q, want %q", opened, result.Artifact)
	}

	if obs.starts != 1 || obs.finishes != 1 {
		t.Errorf("starts=%d finishes=%d, want 1 and 1", obs.starts, obs.finishes)
	}
	if obs.result != result || obs.err != nil {
		t.Errorf("OnFinish got (%v, %v), want the result", obs.result, obs.err)
	}
	if len(obs.progress) < 2 || !strings.HasPrefix(obs.progress[0], "1/2 ") {
		t.Errorf("progress = %v", obs.progress)
	}
	if last := obs.progress[len(obs.progress)-1]; last != "2/2 compiling Manual.chm" {
		t.Errorf("last progress = %q", last)
	}
}

func TestCompile_ObserverOnFailure(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	c := newTestCompiler(t, append(fakeCompiler(1, true), WithObserver(obs))...)
	_, err := c.Compile(context.Background(), Input{})
	if err == nil {
		t.Fatal("expected error")
	}
	if obs.finishes != 1 || !errors.Is(obs.err, ErrEmptySource) {
		t.Errorf("OnFinish err = %v, want ErrEmptySource", obs.err)
	}
}

// ---------------------------------------------------------------------------
// TestResult - Message
// ---------------------------------------------------------------------------

func TestResult_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pages []string
		want  string
	}{
		{[]string{"a.html"}, "compiled 1 page into M.chm"},
		{[]string{"a.html", "b.html"}, "compiled 2 pages into M.chm"},
	}
	for _, tt := range tests {
		r := &Result{Artifact: "M.chm", Pages: tt.pages}
		if got := r.Message(); got != tt.want {
			t.Errorf("Message() = %q, want %q", got, tt.want)
		}
	}
}
