// Package nav composes the top navigation menu and the sidebars from the
// content tree.
package nav

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/Jokero/webpack.js.org/internal/content"
	"github.com/Jokero/webpack.js.org/internal/projector"
	"github.com/Jokero/webpack.js.org/internal/router"
)

// DefaultActivePattern marks documentation paths regardless of which
// sections the tree currently has.
const DefaultActivePattern = `^/(api|concepts|configuration|guides|loaders|migrate|plugins)`

// Documentation configures the dynamic "Documentation" menu entry.
type Documentation struct {
	Content         string   `koanf:"content" yaml:"content"`
	URL             string   `koanf:"url" yaml:"url"`
	ActivePattern   string   `koanf:"active_pattern" yaml:"active_pattern"`
	ExcludeSections []string `koanf:"exclude_sections" yaml:"exclude_sections"`
	// Position is the index among the fixed links at which the entry is inserted.
	Position int `koanf:"position" yaml:"position"`
}

// LinkConfig is a fixed menu entry.
type LinkConfig struct {
	Content string `koanf:"content" yaml:"content"`
	URL     string `koanf:"url" yaml:"url"`
}

// Config describes the top navigation.
type Config struct {
	Documentation Documentation `koanf:"documentation" yaml:"documentation"`
	Links         []LinkConfig  `koanf:"links" yaml:"links"`
}

// DefaultConfig returns the stock webpack menu.
func DefaultConfig() Config {
	return Config{
		Documentation: Documentation{
			Content:         "Documentation",
			URL:             "/concepts/",
			ActivePattern:   DefaultActivePattern,
			ExcludeSections: []string{"contribute"},
			Position:        0,
		},
		Links: []LinkConfig{
			{Content: "Contribute", URL: "/contribute/"},
			{Content: "Vote", URL: "/vote/"},
			{Content: "Blog", URL: "/blog/"},
		},
	}
}

// Link is one top navigation entry.
type Link struct {
	Content  string              `json:"content"`
	URL      string              `json:"url"`
	Children []projector.NavNode `json:"children,omitempty"`

	pattern *regexp.Regexp
}

// IsActive reports whether the entry is highlighted for pathname. Entries
// with an active pattern test it; others match on a path-boundary prefix.
func (l Link) IsActive(pathname string) bool {
	if l.pattern != nil {
		return l.pattern.MatchString(pathname)
	}
	if l.URL == "/" {
		return pathname == "/"
	}
	return router.HasPathPrefix(pathname, l.URL)
}

// BuildTopNav returns the fixed links with the Documentation entry inserted.
// Its children are the stripped sections minus the excluded names.
func BuildTopNav(sections []*content.Node, cfg Config) ([]Link, error) {
	doc := cfg.Documentation
	pattern, err := regexp.Compile(doc.ActivePattern)
	if err != nil {
		return nil, fmt.Errorf("compiling active pattern %q: %w", doc.ActivePattern, err)
	}

	visible := make([]*content.Node, 0, len(sections))
	for _, s := range sections {
		if s != nil && slices.Contains(doc.ExcludeSections, s.Name) {
			continue
		}
		visible = append(visible, s)
	}
	children, err := projector.Strip(visible)
	if err != nil {
		return nil, fmt.Errorf("building documentation menu: %w", err)
	}

	links := make([]Link, 0, len(cfg.Links)+1)
	for _, l := range cfg.Links {
		links = append(links, Link{Content: l.Content, URL: l.URL})
	}
	pos := min(max(doc.Position, 0), len(links))
	links = slices.Insert(links, pos, Link{
		Content:  doc.Content,
		URL:      doc.URL,
		Children: children,
		pattern:  pattern,
	})
	return links, nil
}

// RenderedLink is a view model for templates.
type RenderedLink struct {
	Content  string              `json:"content"`
	URL      string              `json:"url"`
	Active   bool                `json:"active"`
	Children []projector.NavNode `json:"children,omitempty"`
}

// Render evaluates the active state of each link for pathname.
func Render(links []Link, pathname string) []RenderedLink {
	out := make([]RenderedLink, 0, len(links))
	for _, l := range links {
		out = append(out, RenderedLink{
			Content:  l.Content,
			URL:      l.URL,
			Active:   l.IsActive(pathname),
			Children: l.Children,
		})
	}
	return out
}

// BuildSidebar returns the sidebar for the current location. Inside a
// section it lists the section's children; at the top level it lists the
// root's pages other than the landing page.
func BuildSidebar(tree *content.Node, section *content.Node) ([]projector.NavNode, error) {
	if section != nil {
		return projector.Strip(section.Children)
	}
	if tree == nil {
		return projector.Strip(nil)
	}
	top := make([]*content.Node, 0, len(tree.Children))
	for _, n := range tree.Children {
		if n == nil || n.IsDirectory() || n.URL == "/" {
			continue
		}
		top = append(top, n)
	}
	return projector.Strip(top)
}

// BuildMobileSidebar returns the whole tree for the mobile menu, independent
// of the current location.
func BuildMobileSidebar(tree *content.Node) ([]projector.NavNode, error) {
	if tree == nil {
		return projector.Strip(nil)
	}
	return projector.Strip(tree.Children)
}
