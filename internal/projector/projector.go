// Package projector derives flat and navigational views of the content tree.
// Every function is pure: inputs are never modified.
package projector

import (
	"github.com/Jokero/webpack.js.org/internal/content"
)

// ExtractPages returns every non-directory node of the tree in depth-first
// source order.
func ExtractPages(tree *content.Node) []*content.Node {
	var pages []*content.Node
	if tree == nil {
		return pages
	}
	tree.Walk(func(n *content.Node, _ int) {
		if !n.IsDirectory() {
			pages = append(pages, n)
		}
	})
	return pages
}

// ExtractSections returns the top-level directories of the tree.
func ExtractSections(tree *content.Node) []*content.Node {
	var sections []*content.Node
	if tree == nil {
		return sections
	}
	for _, child := range tree.Children {
		if child.IsDirectory() {
			sections = append(sections, child)
		}
	}
	return sections
}

// PageTitle returns the document title for pathname: "<page> | <site>" when
// a page matches exactly, the site title otherwise. An empty siteTitle falls
// back to the root node's title.
func PageTitle(tree *content.Node, pathname, siteTitle string) string {
	if siteTitle == "" && tree != nil {
		siteTitle = tree.Title
	}
	if pathname == "/" {
		return siteTitle
	}
	page := FindPage(tree, pathname)
	if page == nil {
		return siteTitle
	}
	title := page.DisplayTitle()
	if siteTitle == "" {
		return title
	}
	return title + " | " + siteTitle
}

// FindPage returns the first page whose url equals pathname, or nil.
func FindPage(tree *content.Node, pathname string) *content.Node {
	for _, p := range ExtractPages(tree) {
		if p.URL == pathname {
			return p
		}
	}
	return nil
}
