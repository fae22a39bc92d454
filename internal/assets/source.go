package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// Source reads assets of one origin.
type Source interface {
	// Load returns the content of asset name of kind k. A missing asset
	// yields an error matching the kind's not-found sentinel.
	Load(k Kind, name string) (string, error)

	// Names lists the assets of kind k, without extension, sorted.
	Names(k Kind) []string
}

// fsSource reads assets from a file system laid out as described in the
// package documentation.
type fsSource struct {
	open func() (fs.FS, func() error, error)
}

// Builtin returns the assets compiled into the binary.
func Builtin() Source {
	return &fsSource{open: func() (fs.FS, func() error, error) {
		return builtin, func() error { return nil }, nil
	}}
}

// Dir returns a Source reading from directory dir. Files are opened through
// an os.Root confined to dir.
func Dir(dir string) (Source, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}

	return &fsSource{open: func() (fs.FS, func() error, error) {
		root, err := os.OpenRoot(abs)
		if err != nil {
			return nil, nil, err
		}
		return root.FS(), root.Close, nil
	}}, nil
}

func (s *fsSource) Load(k Kind, name string) (string, error) {
	file, err := k.file(name)
	if err != nil {
		return "", err
	}

	fsys, closeFS, err := s.open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = closeFS() }()

	content, err := fs.ReadFile(fsys, file)
	switch {
	case err == nil:
		return string(content), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound(), name)
	default:
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, file, err)
	}
}

func (s *fsSource) Names(k Kind) []string {
	fsys, closeFS, err := s.open()
	if err != nil {
		return nil
	}
	defer func() { _ = closeFS() }()

	entries, err := fs.ReadDir(fsys, k.dir())
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), k.ext())
		if ok && path.Ext(name) == "" && ValidateAssetName(name) == nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
