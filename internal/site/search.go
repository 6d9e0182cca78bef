package site

import (
	"encoding/json"
	"os"

	"github.com/Jokero/webpack.js.org/internal/content"
	"github.com/Jokero/webpack.js.org/internal/projector"
)

// SearchEntry represents a single searchable page in the documentation.
type SearchEntry struct {
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Section string   `json:"section,omitempty"`
	Group   string   `json:"group,omitempty"`
	Anchors []string `json:"anchors,omitempty"`
}

// BuildSearchIndex lists every page of the tree that navigation shows,
// in source order.
func BuildSearchIndex(tree *content.Node) []SearchEntry {
	entries := []SearchEntry{}
	if tree == nil {
		return entries
	}
	for _, child := range tree.Children {
		section := ""
		if child.IsDirectory() {
			section = child.DisplayTitle()
		}
		child.Walk(func(n *content.Node, _ int) {
			if n.IsDirectory() {
				return
			}
			nav := projector.NavNode{Title: n.DisplayTitle(), Content: n.DisplayTitle()}
			if nav.Hidden() {
				return
			}
			entry := SearchEntry{
				URL:     n.URL,
				Title:   n.DisplayTitle(),
				Section: section,
				Group:   n.Group,
			}
			for _, a := range n.Anchors {
				entry.Anchors = append(entry.Anchors, a.Title)
			}
			entries = append(entries, entry)
		})
	}
	return entries
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
