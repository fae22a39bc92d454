package md2chm

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2chm/internal/fileutil"
)

// document is one convertible file found under the source root.
type document struct {
	rel string // relative to the source root, slash-separated
	abs string
}

// inventory is what discover found, in discovery order.
type inventory struct {
	dirs []string // subdirectories relative to the source root, parents first
	docs []document
}

// discover walks root and lists documents and subdirectories. Within each
// directory, documents come first, then subdirectories, both in name order.
// Hidden entries, symlinked directories and the exclude directory (typically
// a destination nested in the source) are skipped.
func discover(ctx context.Context, root, exclude string) (*inventory, error) {
	inv := &inventory{}
	if err := inv.walk(ctx, root, "", exclude); err != nil {
		return nil, err
	}
	return inv, nil
}

func (inv *inventory) walk(ctx context.Context, dir, rel, exclude string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentOpen, err)
	}

	var subdirs []os.DirEntry
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			subdirs = append(subdirs, entry)
			continue
		}
		if !fileutil.IsMarkdown(name) {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 && !fileutil.FileExists(filepath.Join(dir, name)) {
			continue
		}
		inv.docs = append(inv.docs, document{
			rel: path.Join(rel, name),
			abs: filepath.Join(dir, name),
		})
	}

	for _, entry := range subdirs {
		abs := filepath.Join(dir, entry.Name())
		if exclude != "" && sameDir(abs, exclude) {
			continue
		}
		sub := path.Join(rel, entry.Name())
		inv.dirs = append(inv.dirs, sub)
		if err := inv.walk(ctx, abs, sub, exclude); err != nil {
			return err
		}
	}
	return nil
}

// sameDir reports whether a and b name the same directory.
func sameDir(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
