package site

import (
	"context"
	"sync"

	"github.com/Jokero/webpack.js.org/internal/theme"
)

// DocumentRoot is the presentation root of a session. The rendered page
// carries its theme as the data-theme attribute of <html>.
type DocumentRoot struct {
	mu    sync.RWMutex
	theme theme.Choice
}

// Apply implements theme.Applier.
func (d *DocumentRoot) Apply(c theme.Choice) {
	d.mu.Lock()
	d.theme = c
	d.mu.Unlock()
}

// Theme returns the applied theme.
func (d *DocumentRoot) Theme() theme.Choice {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.theme
}

// Controller holds the state of one visitor session and renders views for it.
type Controller struct {
	site *Site
	root *DocumentRoot
	pref *theme.Preference

	mu          sync.Mutex
	sidebarOpen bool
}

// NewController loads the session's theme from store and applies it.
func (s *Site) NewController(ctx context.Context, store theme.Store, opts ...theme.Option) *Controller {
	root := &DocumentRoot{}
	return &Controller{
		site: s,
		root: root,
		pref: theme.Load(ctx, store, root, s.logger, opts...),
	}
}

// Render composes the view for loc.
func (c *Controller) Render(ctx context.Context, loc Location) (*View, error) {
	c.mu.Lock()
	state := viewState{theme: c.root.Theme(), sidebarOpen: c.sidebarOpen}
	c.mu.Unlock()
	return c.site.render(ctx, loc, state)
}

// ToggleSidebar flips the mobile sidebar and returns the new state.
func (c *Controller) ToggleSidebar() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sidebarOpen = !c.sidebarOpen
	return c.sidebarOpen
}

// SetSidebar opens or closes the mobile sidebar.
func (c *Controller) SetSidebar(open bool) {
	c.mu.Lock()
	c.sidebarOpen = open
	c.mu.Unlock()
}

// SidebarOpen reports whether the mobile sidebar is open.
func (c *Controller) SidebarOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sidebarOpen
}

// SwitchTheme changes the session theme.
func (c *Controller) SwitchTheme(ctx context.Context, choice theme.Choice) error {
	return c.pref.Switch(ctx, choice)
}

// Theme returns the session theme.
func (c *Controller) Theme() theme.Choice {
	return c.pref.Current()
}

// AppliedTheme returns the theme currently rendered on the document root.
func (c *Controller) AppliedTheme() theme.Choice {
	return c.root.Theme()
}
