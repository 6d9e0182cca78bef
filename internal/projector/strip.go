package projector

import (
	"fmt"
	"strings"

	"github.com/Jokero/webpack.js.org/internal/content"
)

// Entries matching either marker are kept in the tree but never shown in navigation.
const (
	printableTitle  = "printable.md"
	printableMarker = "Printable"
)

// NavNode is the display-ready projection of a content node used by menus
// and sidebars. Name is kept so a projection can be projected again.
type NavNode struct {
	Name     string           `json:"name"`
	Title    string           `json:"title"`
	Content  string           `json:"content"`
	URL      string           `json:"url"`
	Group    string           `json:"group,omitempty"`
	Sort     int              `json:"sort"`
	Anchors  []content.Anchor `json:"anchors,omitempty"`
	Children []NavNode        `json:"children"`
}

// Hidden reports whether the entry is excluded from navigation.
func (n NavNode) Hidden() bool {
	return n.Title == printableTitle || strings.Contains(n.Content, printableMarker)
}

// Strip canonicalizes a sibling list for navigation at every level: the
// index.md sibling moves to the front, each node is mapped to a NavNode and
// printable entries are dropped. A node without a name or url is an error.
func Strip(nodes []*content.Node) ([]NavNode, error) {
	return strip(nodes, nil, 0)
}

func strip(nodes []*content.Node, trail []string, depth int) ([]NavNode, error) {
	if depth > content.MaxDepth {
		return nil, fmt.Errorf("%w (%d) at %v", content.ErrTooDeep, content.MaxDepth, trail)
	}

	ordered := promoteIndex(nodes, func(n *content.Node) bool {
		return n != nil && n.IsIndex()
	})

	out := make([]NavNode, 0, len(ordered))
	for _, n := range ordered {
		if n == nil || n.Name == "" {
			return nil, &content.MalformedNodeError{Trail: trail, Field: "name"}
		}
		if n.URL == "" {
			return nil, &content.MalformedNodeError{Trail: append(trail, n.Name), Field: "url"}
		}

		children, err := strip(n.Children, append(trail[:len(trail):len(trail)], n.Name), depth+1)
		if err != nil {
			return nil, err
		}

		title := n.DisplayTitle()
		nav := NavNode{
			Name:     n.Name,
			Title:    title,
			Content:  title,
			URL:      n.URL,
			Group:    n.Group,
			Sort:     n.Sort,
			Anchors:  n.Anchors,
			Children: children,
		}
		if nav.Hidden() {
			continue
		}
		out = append(out, nav)
	}
	return out, nil
}

// Restrip applies the Strip rules to an existing projection. For any x,
// Restrip(Strip(x)) equals Strip(x).
func Restrip(nodes []NavNode) ([]NavNode, error) {
	return restrip(nodes, 0)
}

func restrip(nodes []NavNode, depth int) ([]NavNode, error) {
	if depth > content.MaxDepth {
		return nil, fmt.Errorf("%w (%d)", content.ErrTooDeep, content.MaxDepth)
	}

	ordered := promoteIndex(nodes, func(n NavNode) bool {
		return strings.EqualFold(n.Name, content.IndexName)
	})

	out := make([]NavNode, 0, len(ordered))
	for _, n := range ordered {
		if n.Hidden() {
			continue
		}
		children, err := restrip(n.Children, depth+1)
		if err != nil {
			return nil, err
		}
		n.Children = children
		out = append(out, n)
	}
	return out, nil
}

// promoteIndex returns items with the first index entry moved to the front.
// The input slice is never modified.
func promoteIndex[T any](items []T, isIndex func(T) bool) []T {
	idx := -1
	for i, it := range items {
		if isIndex(it) {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return items
	}
	out := make([]T, 0, len(items))
	out = append(out, items[idx])
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return out
}
