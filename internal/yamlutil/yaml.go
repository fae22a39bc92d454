// Package yamlutil wraps YAML parsing and YAML file persistence so callers
// never import the YAML library directly.
package yamlutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps the bytes accepted by any decode call. Config and state
// files are a few hundred bytes; 1 MiB is generous.
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Unmarshal decodes data into v. Unknown fields are ignored.
func Unmarshal(data []byte, v any) error {
	return decode(data, v, false)
}

// UnmarshalStrict decodes data into v and fails on unknown fields.
func UnmarshalStrict(data []byte, v any) error {
	return decode(data, v, true)
}

func decode(data []byte, v any, strict bool) error {
	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > MaxInputSize:
		return tooLarge(int64(len(data)))
	case v == nil:
		return ErrNilDestination
	}

	var opts []yaml.DecodeOption
	if strict {
		opts = append(opts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

func tooLarge(size int64) error {
	return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, size, MaxInputSize)
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// ReadFile reads path and decodes it into v. The file size is checked
// against MaxInputSize before reading. Errors from os are returned wrapped,
// so os.IsNotExist still matches through errors.Is(err, fs.ErrNotExist).
func ReadFile(path string, v any, strict bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	if info.Size() > int64(MaxInputSize) {
		return tooLarge(info.Size())
	}

	data, err := os.ReadFile(path) // #nosec G304 -- caller-provided path
	if err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return decode(data, v, strict)
}

// WriteFile encodes v and writes it to path through a temporary file in the
// same directory, so readers never observe a partial document.
// Missing parent directories are created.
func WriteFile(path string, v any, perm os.FileMode) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("yamlutil: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}
