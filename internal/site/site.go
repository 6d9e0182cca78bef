// Package site composes the per-render view model of the documentation site
// and owns the per-visitor session state.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/Jokero/webpack.js.org/internal/content"
	"github.com/Jokero/webpack.js.org/internal/nav"
	"github.com/Jokero/webpack.js.org/internal/projector"
	"github.com/Jokero/webpack.js.org/internal/router"
	"github.com/Jokero/webpack.js.org/internal/theme"
)

// Config holds the site-wide settings shared by every session.
type Config struct {
	Title       string
	FixedRoutes []string
	Nav         nav.Config
}

// Location is the current route of one render.
type Location struct {
	Pathname string `json:"pathname"`
}

// PageView is the page being shown together with its neighbours.
type PageView struct {
	Title    string             `json:"title"`
	URL      string             `json:"url"`
	Group    string             `json:"group,omitempty"`
	Anchors  []content.Anchor   `json:"anchors,omitempty"`
	Content  template.HTML      `json:"content"`
	Previous *projector.NavNode `json:"previous,omitempty"`
	Next     *projector.NavNode `json:"next,omitempty"`
}

// View is the composed result of one render.
type View struct {
	Location          Location            `json:"location"`
	Outcome           router.Outcome      `json:"outcome"`
	Redirect          string              `json:"redirect,omitempty"`
	Fixed             string              `json:"fixed,omitempty"`
	Title             string              `json:"title"`
	SiteTitle         string              `json:"site_title"`
	Section           string              `json:"section,omitempty"`
	TopNav            []nav.RenderedLink  `json:"top_nav"`
	Sidebar           []projector.NavNode `json:"sidebar"`
	MobileSidebar     []projector.NavNode `json:"mobile_sidebar"`
	MobileSidebarOpen bool                `json:"mobile_sidebar_open"`
	Theme             theme.Choice        `json:"theme"`
	Page              *PageView           `json:"page,omitempty"`
}

// Site is the state shared by all sessions: the content source and the
// configuration needed to project it.
type Site struct {
	source   *content.Source
	resolver Resolver
	cfg      Config
	logger   *zap.Logger
}

// New creates a Site. A nil resolver renders pages without a body.
func New(source *content.Source, resolver Resolver, cfg Config, logger *zap.Logger) *Site {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FixedRoutes == nil {
		cfg.FixedRoutes = router.DefaultFixedRoutes
	}
	return &Site{source: source, resolver: resolver, cfg: cfg, logger: logger}
}

// Source returns the content source.
func (s *Site) Source() *content.Source { return s.source }

// Routes lists the route table of the current tree.
func (s *Site) Routes() []router.Route {
	tree := s.source.Tree()
	return router.NewTable(projector.ExtractPages(tree), s.cfg.FixedRoutes).Routes()
}

// viewState is the session state a render reads.
type viewState struct {
	theme       theme.Choice
	sidebarOpen bool
}

// render recomputes every projection from the current tree snapshot.
func (s *Site) render(ctx context.Context, loc Location, state viewState) (*View, error) {
	if loc.Pathname == "" {
		loc.Pathname = "/"
	}
	tree := s.source.Tree()
	sections := projector.ExtractSections(tree)
	table := router.NewTable(projector.ExtractPages(tree), s.cfg.FixedRoutes)
	match := table.Resolve(loc.Pathname)

	view := &View{
		Location:          loc,
		Outcome:           match.Outcome,
		SiteTitle:         s.siteTitle(tree),
		MobileSidebarOpen: state.sidebarOpen,
		Theme:             state.theme,
	}
	if match.Outcome == router.OutcomeRedirect {
		view.Redirect = match.Target
		return view, nil
	}

	section := router.MatchSection(sections, loc.Pathname)
	if section != nil {
		view.Section = section.URL
	}

	sidebar, err := nav.BuildSidebar(tree, section)
	if err != nil {
		return nil, fmt.Errorf("building sidebar: %w", err)
	}
	links, err := nav.BuildTopNav(sections, s.cfg.Nav)
	if err != nil {
		return nil, fmt.Errorf("building top navigation: %w", err)
	}
	mobile, err := nav.BuildMobileSidebar(tree)
	if err != nil {
		return nil, fmt.Errorf("building mobile sidebar: %w", err)
	}
	view.Sidebar = sidebar
	view.TopNav = nav.Render(links, loc.Pathname)
	view.MobileSidebar = mobile
	view.Title = projector.PageTitle(tree, loc.Pathname, s.cfg.Title)

	switch match.Outcome {
	case router.OutcomeFixed:
		view.Fixed = match.Fixed
	case router.OutcomePage:
		page, err := s.pageView(ctx, match.Page, sidebar)
		if err != nil {
			return nil, err
		}
		view.Page = page
	}
	return view, nil
}

func (s *Site) pageView(ctx context.Context, page *content.Node, sidebar []projector.NavNode) (*PageView, error) {
	pv := &PageView{
		Title:   page.DisplayTitle(),
		URL:     page.URL,
		Group:   page.Group,
		Anchors: page.Anchors,
	}
	if s.resolver != nil && page.Path != "" {
		body, err := s.resolver.Resolve(ctx, page.Path)
		switch {
		case errors.Is(err, ErrContentNotFound):
			s.logger.Warn("page source missing", zap.String("url", page.URL), zap.String("path", page.Path))
		case err != nil:
			return nil, fmt.Errorf("resolving %s: %w", page.URL, err)
		default:
			pv.Content = body
		}
	}
	pv.Previous, pv.Next = nav.AdjacentPages(sidebar, page)
	return pv, nil
}

func (s *Site) siteTitle(tree *content.Node) string {
	if s.cfg.Title != "" || tree == nil {
		return s.cfg.Title
	}
	return tree.Title
}
