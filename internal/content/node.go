package content

import "strings"

// Kind distinguishes the two node variants of the content tree.
type Kind int

const (
	KindPage Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "page"
}

// TypeDirectory is the raw type value the tree generator writes for directories.
const TypeDirectory = "directory"

// TypeFile is the raw type value written for markdown pages.
const TypeFile = "file"

// Anchor is an in-page heading. The navigation core never looks inside it.
type Anchor struct {
	Title string `json:"title" yaml:"title"`
	ID    string `json:"id" yaml:"id"`
}

// Node is one entry of the content tree: a page or a directory.
type Node struct {
	Kind     Kind
	Name     string
	Title    string
	URL      string
	Type     string // raw leaf kind, "directory" for directories
	Group    string
	Sort     int
	Anchors  []Anchor
	Children []*Node
	Path     string // source identifier passed to the content resolver
}

// IsDirectory reports whether n is a directory node.
func (n *Node) IsDirectory() bool { return n.Kind == KindDirectory }

// DisplayTitle returns the title, falling back to the name.
func (n *Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.Name
}

// IsIndex reports whether the node is the canonical index.md entry of its siblings.
func (n *Node) IsIndex() bool {
	return strings.EqualFold(n.Name, IndexName)
}

// IndexName is the file name that marks a group's canonical entry.
const IndexName = "index.md"

// Walk visits n and its descendants depth-first in source order. It stops
// descending below MaxDepth.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int)) {
	if n == nil || depth > MaxDepth {
		return
	}
	fn(n, depth)
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}
