package assets

// Notes:
// - Library: we test custom-first lookup on real temp directories, fallback
//   only for missing assets, and confinement of the custom directory.
// - Symlink tests are skipped where symlinks cannot be created.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// writeAssets creates files under a new asset directory.
func writeAssets(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// ---------------------------------------------------------------------------
// TestNewLibrary - Custom directory validation
// ---------------------------------------------------------------------------

func TestNewLibrary(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "styles.css")
	if err := os.WriteFile(file, []byte("body {}"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{"no custom directory", "", false},
		{"existing directory", t.TempDir(), false},
		{"missing directory", filepath.Join(t.TempDir(), "missing"), true},
		{"file", file, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewLibrary(tt.dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLibrary(%q) error = %v, wantErr %v", tt.dir, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("error = %v, want ErrInvalidBasePath", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLibrary_Load - Custom first, built-in fallback
// ---------------------------------------------------------------------------

func TestLibrary_Load(t *testing.T) {
	t.Parallel()

	dir := writeAssets(t, map[string]string{
		"styles/default.css":  "/* house default */",
		"styles/house.css":    "/* house */",
		"templates/page.html": "<html>{{.Title}}{{.Body}}</html>",
	})
	lib, err := NewLibrary(dir)
	if err != nil {
		t.Fatal(err)
	}
	builtinMinimal, err := LoadStyle("minimal")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		kind    Kind
		asset   string
		want    string
		wantErr error
	}{
		{"override built-in style", Style, "default", "/* house default */", nil},
		{"custom-only style", Style, "house", "/* house */", nil},
		{"fallback to built-in", Style, "minimal", builtinMinimal, nil},
		{"override template", Template, "page", "<html>{{.Title}}{{.Body}}</html>", nil},
		{"missing everywhere", Style, "nope", "", ErrStyleNotFound},
		{"missing template", Template, "cover", "", ErrTemplateNotFound},
		{"invalid name", Style, "../styles/house", "", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := lib.Load(tt.kind, tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Load(%v, %q) error = %v, want %v", tt.kind, tt.asset, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load(%v, %q) unexpected error: %v", tt.kind, tt.asset, err)
			}
			if got != tt.want {
				t.Errorf("Load(%v, %q) = %q, want %q", tt.kind, tt.asset, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLibrary_SymlinkEscape - Custom directory confinement
// ---------------------------------------------------------------------------

func TestLibrary_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := filepath.Join(t.TempDir(), "secret.css")
	if err := os.WriteFile(outside, []byte("/* secret */"), 0o600); err != nil {
		t.Fatal(err)
	}
	dir := writeAssets(t, map[string]string{"styles/inside.css": "/* inside */"})
	if err := os.Symlink(outside, filepath.Join(dir, "styles", "default.css")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	lib, err := NewLibrary(dir)
	if err != nil {
		t.Fatal(err)
	}

	got, err := lib.Style("default")
	if err == nil {
		t.Fatalf("Style(default) = %q, want an error for a link leaving the directory", got)
	}
	if !errors.Is(err, ErrAssetRead) {
		t.Errorf("error = %v, want ErrAssetRead", err)
	}
	if strings.Contains(got, "secret") {
		t.Error("content outside the asset directory was read")
	}
}

// ---------------------------------------------------------------------------
// TestLibrary_StyleNames - Listing across sources
// ---------------------------------------------------------------------------

func TestLibrary_StyleNames(t *testing.T) {
	t.Parallel()

	dir := writeAssets(t, map[string]string{
		"styles/house.css":    "/* house */",
		"styles/default.css":  "/* duplicate of a built-in name */",
		"styles/notes.txt":    "not a style",
		"styles/print.v2.css": "/* dotted names cannot be loaded */",
	})
	lib, err := NewLibrary(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"default", "house", "minimal", "technical"}
	if got := lib.StyleNames(); !slices.Equal(got, want) {
		t.Errorf("StyleNames() = %v, want %v", got, want)
	}

	empty, err := NewLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got := empty.StyleNames(); !slices.Equal(got, StyleNames()) {
		t.Errorf("StyleNames() without custom styles = %v, want built-ins %v", got, StyleNames())
	}
}
