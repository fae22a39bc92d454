// Package state remembers the directories used by the last successful build,
// so the next build can default to them.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2chm/internal/config"
	"github.com/alnah/go-md2chm/internal/yamlutil"
)

// FileName is the state file name inside the application config directory.
const FileName = "state.yaml"

const filePermissions = 0o600

// ErrStateRead is returned when an existing state file cannot be used.
var ErrStateRead = errors.New("reading state")

// State holds remembered values. Empty fields mean nothing is remembered.
type State struct {
	LastSource      string `yaml:"lastSource,omitempty"`
	LastDestination string `yaml:"lastDestination,omitempty"`
	LastTitle       string `yaml:"lastTitle,omitempty"`
}

// Store reads and writes a state file.
type Store struct {
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the state file in the user config directory,
// e.g. $XDG_CONFIG_HOME/go-md2chm/state.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, config.AppDir, FileName), nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the remembered state. A missing or empty file yields an
// empty State and no error.
func (s *Store) Load() (State, error) {
	var st State
	err := yamlutil.ReadFile(s.path, &st, false)
	switch {
	case err == nil:
		return st, nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, yamlutil.ErrNilData):
		return State{}, nil
	default:
		return State{}, fmt.Errorf("%w: %s: %v", ErrStateRead, s.path, err)
	}
}

// Save replaces the stored state with st.
func (s *Store) Save(st State) error {
	if err := yamlutil.WriteFile(s.path, st, filePermissions); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// Remember records a successful build. Paths are stored absolute so they
// stay valid from any working directory.
func (s *Store) Remember(source, destination, title string) error {
	st := State{LastTitle: title}
	var err error
	if st.LastSource, err = filepath.Abs(source); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	if st.LastDestination, err = filepath.Abs(destination); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return s.Save(st)
}
