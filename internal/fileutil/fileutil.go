// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrNotDirectory  = errors.New("path is not a directory")
	ErrUnsafeRemoval = errors.New("refusing to remove directory")
)

// MarkdownExtensions lists the extensions treated as convertible documents.
var MarkdownExtensions = []string{".md", ".markdown"}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsDirEmpty reports whether dir has no entries. A missing directory is empty.
func IsDirEmpty(dir string) (bool, error) {
	f, err := os.Open(dir) // #nosec G304 -- caller-provided directory
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// ResetDir removes dir and everything below it, then recreates it empty.
// Refuses filesystem roots and the current working directory.
func ResetDir(dir string, perm os.FileMode) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return fmt.Errorf("%w: %s is a filesystem root", ErrUnsafeRemoval, abs)
	}
	if wd, err := os.Getwd(); err == nil && wd == abs {
		return fmt.Errorf("%w: %s is the working directory", ErrUnsafeRemoval, abs)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	if err := os.RemoveAll(abs); err != nil {
		return err
	}
	return os.MkdirAll(abs, perm)
}

// IsMarkdown reports whether name has a convertible document extension.
func IsMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range MarkdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ChangeExt replaces the last extension of name with ext ("" removes it).
//
// Examples:
//   - ChangeExt("intro.md", ".html") -> "intro.html"
//   - ChangeExt("v1.2.md", ".html") -> "v1.2.html"
//   - ChangeExt("README", ".html") -> "README.html"
func ChangeExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// RelSlash returns target relative to base using forward slashes.
func RelSlash(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "technical" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/path.css" -> true (absolute)
//   - "C:\windows\path.css" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS returns true if the string looks like inline CSS rather than a name or path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
