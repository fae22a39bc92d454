// Package toctree builds the table-of-contents hierarchy from the flat list
// of generated page paths.
//
// Nodes live in an arena and refer to their children by index, so appending
// a node never invalidates an identifier held by a caller.
package toctree

import (
	"fmt"
	"strings"
)

// NodeID identifies a node within its Tree.
type NodeID int

// RootID is the identifier of the root node of every Tree.
const RootID NodeID = 0

// Separator splits a generated path into segments.
const Separator = "/"

// Node is one path segment of the document hierarchy.
// A node without children is a page; a node with children groups a directory.
type Node struct {
	Title    string   // segment name: directory name or page file name
	Path     string   // generated path up to and including this segment
	Children []NodeID // first-seen order
}

// Tree is a single-rooted hierarchy. The root has an empty title.
type Tree struct {
	nodes []Node
}

// New returns a tree containing only the root.
func New() *Tree {
	return &Tree{nodes: []Node{{}}}
}

// Build creates a tree from slash-separated relative paths.
// Paths sharing leading segments share interior nodes, and siblings keep the
// order in which their defining paths first appear. Empty segments are ignored.
func Build(paths []string) *Tree {
	t := New()
	for _, p := range paths {
		t.Insert(p)
	}
	return t
}

// Insert adds path to the tree and returns the node of its last segment.
// Returns RootID if path has no non-empty segment.
func (t *Tree) Insert(path string) NodeID {
	current := RootID
	var prefix []string
	for _, segment := range strings.Split(path, Separator) {
		if segment == "" {
			continue
		}
		prefix = append(prefix, segment)
		if child, ok := t.FindChild(current, segment); ok {
			current = child
			continue
		}
		current = t.AddChild(current, segment, strings.Join(prefix, Separator))
	}
	return current
}

// AddChild appends a new child under parent and returns its identifier.
// Panics if parent does not belong to t (programmer error).
func (t *Tree) AddChild(parent NodeID, title, path string) NodeID {
	t.mustContain(parent)
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Title: title, Path: path})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}

// FindChild searches the children of parent in insertion order for an exact,
// case-sensitive title match.
func (t *Tree) FindChild(parent NodeID, title string) (NodeID, bool) {
	t.mustContain(parent)
	for _, child := range t.nodes[parent].Children {
		if t.nodes[child].Title == title {
			return child, true
		}
	}
	return 0, false
}

// Node returns a copy of the node identified by id.
func (t *Tree) Node(id NodeID) Node {
	t.mustContain(id)
	n := t.nodes[id]
	n.Children = append([]NodeID(nil), n.Children...)
	return n
}

// Children returns the children of id in insertion order.
func (t *Tree) Children(id NodeID) []NodeID {
	t.mustContain(id)
	return append([]NodeID(nil), t.nodes[id].Children...)
}

// IsLeaf reports whether id has no children.
func (t *Tree) IsLeaf(id NodeID) bool {
	t.mustContain(id)
	return len(t.nodes[id].Children) == 0
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Empty reports whether the root has no children.
func (t *Tree) Empty() bool {
	return len(t.nodes[RootID].Children) == 0
}

// Leaves returns the paths of all leaf nodes in pre-order.
func (t *Tree) Leaves() []string {
	var out []string
	_ = t.Walk(func(id NodeID, _ int) error {
		if t.IsLeaf(id) {
			out = append(out, t.nodes[id].Path)
		}
		return nil
	}, nil)
	return out
}

// Walk visits every node below the root depth-first in pre-order.
// enter is called before a node's children, leave (if non-nil) after them.
// Depth is 1 for children of the root. Walk stops at the first error.
func (t *Tree) Walk(enter, leave func(id NodeID, depth int) error) error {
	return t.walk(RootID, 0, enter, leave)
}

func (t *Tree) walk(id NodeID, depth int, enter, leave func(NodeID, int) error) error {
	for _, child := range t.nodes[id].Children {
		if enter != nil {
			if err := enter(child, depth+1); err != nil {
				return err
			}
		}
		if err := t.walk(child, depth+1, enter, leave); err != nil {
			return err
		}
		if leave != nil {
			if err := leave(child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders the tree as an indented outline, mainly for debugging.
func (t *Tree) String() string {
	var b strings.Builder
	_ = t.Walk(func(id NodeID, depth int) error {
		n := t.nodes[id]
		fmt.Fprintf(&b, "%s%s", strings.Repeat("  ", depth-1), n.Title)
		if len(n.Children) == 0 {
			fmt.Fprintf(&b, " -> %s", n.Path)
		}
		b.WriteByte('\n')
		return nil
	}, nil)
	return b.String()
}

func (t *Tree) mustContain(id NodeID) {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("toctree: node %d out of range [0,%d)", id, len(t.nodes)))
	}
}
