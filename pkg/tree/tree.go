package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyID is returned by [Validate] when a node has no identifier.
	ErrEmptyID = errors.New("node ID must not be empty")

	// ErrDuplicateID is returned by [Validate] when two nodes share an ID.
	// IDs must be unique within one tree build.
	ErrDuplicateID = errors.New("duplicate node ID")

	// ErrNilRoot is returned when an operation requires a tree but got nil.
	ErrNilRoot = errors.New("tree has no root")
)

// RootID is the identifier of the synthetic root created by [Aggregate].
const RootID = "root"

// Item is the opaque payload a storage integration attaches to a node
// (size, mime type, remote URL, ...). The canvas never interprets it.
type Item map[string]any

// Node is one folder or file entry. A parent owns its children; no node is
// shared between two parents.
type Node struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Item     Item    `json:"item,omitempty" yaml:"item,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Label returns the display name, falling back to the ID.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Walk visits n and its descendants depth-first in pre-order. Returning false
// from fn skips the node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if n == nil || !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// Validate checks that every node has a non-empty, unique ID.
func Validate(root *Node) error {
	if root == nil {
		return ErrNilRoot
	}
	seen := make(map[string]bool)
	var err error
	Walk(root, func(n *Node, _ int) bool {
		if err != nil {
			return false
		}
		switch {
		case n.ID == "":
			err = fmt.Errorf("%w (name %q)", ErrEmptyID, n.Name)
		case seen[n.ID]:
			err = fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		default:
			seen[n.ID] = true
		}
		return err == nil
	})
	return err
}

// Aggregate builds a synthetic root whose children are the given service
// trees, in order.
func Aggregate(services ...*Node) *Node {
	root := &Node{ID: RootID, Name: RootID}
	for _, s := range services {
		if s != nil {
			root.Children = append(root.Children, s)
		}
	}
	return root
}

// Filter returns a copy of root keeping only the top-level services accepted
// by keep. Subtrees of kept services are shared with the input, which is safe
// because trees are never mutated after they are built.
func Filter(root *Node, keep func(service *Node) bool) *Node {
	if root == nil {
		return nil
	}
	out := &Node{ID: root.ID, Name: root.Name, Item: root.Item}
	for _, s := range root.Children {
		if keep(s) {
			out.Children = append(out.Children, s)
		}
	}
	return out
}

// assignIDs fills missing IDs as "<parentID>/<name>" so hand-written tree
// files can omit them.
func assignIDs(n *Node, parentID string) {
	if n.ID == "" && n.Name != "" {
		if parentID == "" {
			n.ID = n.Name
		} else {
			n.ID = parentID + "/" + n.Name
		}
	}
	for _, c := range n.Children {
		assignIDs(c, n.ID)
	}
}
