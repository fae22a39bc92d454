package assets

import (
	"errors"
	"slices"
)

// Library looks assets up in a stack of sources, first match wins.
type Library struct {
	sources []Source
}

// NewLibrary returns the built-in assets, overridden by the assets in
// customDir when it is not empty.
func NewLibrary(customDir string) (*Library, error) {
	lib := &Library{}
	if customDir != "" {
		custom, err := Dir(customDir)
		if err != nil {
			return nil, err
		}
		lib.sources = append(lib.sources, custom)
	}
	lib.sources = append(lib.sources, Builtin())
	return lib, nil
}

// Load returns asset name of kind k from the first source that has it.
// Only a missing asset falls through to the next source; any other error,
// such as a read failure or an escaping symlink, is returned as is.
func (l *Library) Load(k Kind, name string) (string, error) {
	var err error
	for _, src := range l.sources {
		var content string
		content, err = src.Load(k, name)
		if err == nil || !errors.Is(err, k.notFound()) {
			return content, err
		}
	}
	return "", err
}

// Style loads a style by name.
func (l *Library) Style(name string) (string, error) {
	return l.Load(Style, name)
}

// Template loads a template by name.
func (l *Library) Template(name string) (string, error) {
	return l.Load(Template, name)
}

// StyleNames lists the style names available from every source, sorted.
func (l *Library) StyleNames() []string {
	var names []string
	for _, src := range l.sources {
		names = append(names, src.Names(Style)...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}
