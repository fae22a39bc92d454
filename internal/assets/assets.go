package assets

import (
	"fmt"
	"strings"
)

// DefaultStyleName is the style used when none is configured.
const DefaultStyleName = "default"

// PageTemplateName is the template wrapping every generated page.
const PageTemplateName = "page"

// Kind selects a family of assets.
type Kind int

const (
	Style Kind = iota
	Template
)

// String returns the kind's directory name.
func (k Kind) String() string {
	return k.dir()
}

func (k Kind) dir() string {
	if k == Template {
		return "templates"
	}
	return "styles"
}

func (k Kind) ext() string {
	if k == Template {
		return ".html"
	}
	return ".css"
}

func (k Kind) notFound() error {
	if k == Template {
		return ErrTemplateNotFound
	}
	return ErrStyleNotFound
}

// file returns the slash-separated path of asset name, relative to a source
// root. The name must be a bare file name without extension.
func (k Kind) file(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	return k.dir() + "/" + name + k.ext(), nil
}

// ValidateAssetName checks that name can only select a file directly in an
// asset directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// builtinLibrary serves the package-level helpers.
var builtinLibrary = &Library{sources: []Source{Builtin()}}

// LoadStyle loads a built-in style by name.
func LoadStyle(name string) (string, error) {
	return builtinLibrary.Load(Style, name)
}

// LoadTemplate loads a built-in template by name.
func LoadTemplate(name string) (string, error) {
	return builtinLibrary.Load(Template, name)
}

// StyleNames lists the built-in style names in sorted order.
func StyleNames() []string {
	return builtinLibrary.StyleNames()
}
