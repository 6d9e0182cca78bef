// Package router maps a request path onto the documentation route table.
package router

import (
	"strings"

	"github.com/Jokero/webpack.js.org/internal/content"
)

// DefaultFixedRoutes are the top-level views served ahead of content pages.
var DefaultFixedRoutes = []string{"/vote", "/organization", "/starter-kits", "/app-shell"}

// Outcome classifies a resolved path.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeRedirect
	OutcomeLanding
	OutcomeFixed
	OutcomePage
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeLanding:
		return "landing"
	case OutcomeFixed:
		return "fixed"
	case OutcomePage:
		return "page"
	default:
		return "not-found"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Match is the result of resolving one pathname.
type Match struct {
	Outcome Outcome
	// Target is the redirect location for OutcomeRedirect.
	Target string
	// Fixed is the fixed route name ("vote", "starter-kits", ...) for OutcomeFixed.
	Fixed string
	// Page is the matched node for OutcomePage.
	Page *content.Node
}

// MatchSection returns the first section whose url is a prefix of pathname
// on a path boundary, or nil. On overlapping prefixes list order wins.
func MatchSection(sections []*content.Node, pathname string) *content.Node {
	for _, s := range sections {
		if s != nil && HasPathPrefix(pathname, s.URL) {
			return s
		}
	}
	return nil
}

// HasPathPrefix reports whether prefix covers pathname up to a segment
// boundary: "/concepts/" covers "/concepts/modules/", "/con" does not.
func HasPathPrefix(pathname, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(pathname, prefix) {
		return false
	}
	if strings.HasSuffix(prefix, "/") || len(pathname) == len(prefix) {
		return true
	}
	return pathname[len(prefix)] == '/'
}

// NeedsTrailingSlashRedirect reports whether pathname is a non-root path
// without a trailing slash.
func NeedsTrailingSlashRedirect(pathname string) bool {
	return pathname != "/" && pathname != "" && !strings.HasSuffix(pathname, "/")
}

// RedirectTarget returns the normalized form of pathname. Leading slashes
// collapse to one so the target stays on the same origin.
func RedirectTarget(pathname string) string {
	return "/" + strings.TrimLeft(pathname, "/") + "/"
}

// Route is one entry of the route table, listed in precedence order.
type Route struct {
	Pattern string
	Kind    Outcome
	Title   string
}

// Table resolves pathnames against the fixed routes and the page set of
// one content tree snapshot.
type Table struct {
	fixed []string
	pages []*content.Node
	byURL map[string]*content.Node
}

// NewTable builds a table. The first page wins when urls repeat; ingestion
// rejects such trees so this only matters for trees built in code.
func NewTable(pages []*content.Node, fixed []string) *Table {
	t := &Table{
		fixed: fixed,
		pages: pages,
		byURL: make(map[string]*content.Node, len(pages)),
	}
	for _, p := range pages {
		if _, ok := t.byURL[p.URL]; !ok {
			t.byURL[p.URL] = p
		}
	}
	return t
}

// Resolve classifies pathname. The order is: trailing-slash redirect,
// landing page, fixed routes, exact page match, not found.
func (t *Table) Resolve(pathname string) Match {
	if pathname == "" {
		pathname = "/"
	}
	if NeedsTrailingSlashRedirect(pathname) {
		return Match{Outcome: OutcomeRedirect, Target: RedirectTarget(pathname)}
	}
	if pathname == "/" {
		return Match{Outcome: OutcomeLanding}
	}
	for _, f := range t.fixed {
		if HasPathPrefix(pathname, f) {
			return Match{Outcome: OutcomeFixed, Fixed: strings.Trim(f, "/")}
		}
	}
	if p, ok := t.byURL[pathname]; ok {
		return Match{Outcome: OutcomePage, Page: p}
	}
	return Match{Outcome: OutcomeNotFound}
}

// Routes lists the table in precedence order.
func (t *Table) Routes() []Route {
	routes := make([]Route, 0, len(t.fixed)+len(t.pages)+3)
	routes = append(routes,
		Route{Pattern: "/:url*  (no trailing slash)", Kind: OutcomeRedirect},
		Route{Pattern: "/", Kind: OutcomeLanding},
	)
	for _, f := range t.fixed {
		routes = append(routes, Route{Pattern: f, Kind: OutcomeFixed, Title: strings.Trim(f, "/")})
	}
	for _, p := range t.pages {
		if p.URL == "/" {
			continue
		}
		routes = append(routes, Route{Pattern: p.URL, Kind: OutcomePage, Title: p.DisplayTitle()})
	}
	routes = append(routes, Route{Pattern: "*", Kind: OutcomeNotFound})
	return routes
}
