package yamlutil

import (
	"fmt"

	"github.com/goccy/go-yaml/ast"
)

// Scalar is a string field that keeps its value as written in the source.
// Plain YAML resolves 0x409 to the integer 1033; a Scalar holds "0x409".
// Quoted and block values are unquoted as usual.
type Scalar string

// UnmarshalYAML implements yaml.NodeUnmarshaler.
func (s *Scalar) UnmarshalYAML(node ast.Node) error {
	switch n := node.(type) {
	case *ast.NullNode:
		*s = ""
	case *ast.StringNode:
		*s = Scalar(n.Value)
	case *ast.LiteralNode:
		*s = Scalar(n.Value.Value)
	case ast.ScalarNode:
		tk := n.GetToken()
		if tk == nil {
			return fmt.Errorf("yamlutil: %s: scalar without a source token", node.GetPath())
		}
		*s = Scalar(tk.Value)
	default:
		return fmt.Errorf("yamlutil: %s: want a scalar value, got %s", node.GetPath(), node.Type())
	}
	return nil
}
