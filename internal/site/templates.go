package site

import (
	"fmt"
	"html/template"
	"io"

	"github.com/Jokero/webpack.js.org/internal/router"
	"github.com/Jokero/webpack.js.org/internal/theme"
)

// Renderer writes views as HTML documents.
type Renderer struct {
	tmpl *template.Template
	// LiveReload adds the reload client to every page.
	LiveReload bool
}

// pageData is what the layout template sees.
type pageData struct {
	*View
	Themes     []theme.Choice
	LiveReload bool
}

// Is reports whether the view's route outcome is kind ("page", "landing", ...).
func (d pageData) Is(kind string) bool { return d.Outcome.String() == kind }

// NewRenderer parses the page templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing layout template: %w", err)
	}
	for name, src := range partials {
		if _, err := tmpl.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the HTML document for v.
func (r *Renderer) Render(w io.Writer, v *View) error {
	if v.Outcome == router.OutcomeRedirect {
		return fmt.Errorf("cannot render redirect to %s", v.Redirect)
	}
	return r.tmpl.ExecuteTemplate(w, "layout", pageData{
		View:       v,
		Themes:     theme.Choices,
		LiveReload: r.LiveReload,
	})
}

// Asset returns a static asset by name.
func Asset(name string) (data, contentType string, ok bool) {
	switch name {
	case "style.css":
		return cssContent, "text/css; charset=utf-8", true
	case "script.js":
		return jsContent, "text/javascript; charset=utf-8", true
	case "highlight.css":
		css, err := HighlightCSS()
		if err != nil {
			return "", "", false
		}
		return css, "text/css; charset=utf-8", true
	}
	return "", "", false
}

// layoutTemplate is the document shell shared by every route.
const layoutTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="/assets/style.css">
  <link rel="stylesheet" href="/assets/highlight.css">
</head>
<body{{if .LiveReload}} data-reload="/ws/reload"{{end}}>
  <header class="site__header">
    <button class="menu-toggle" id="menu-toggle" aria-label="Toggle sidebar">&#9776;</button>
    <a class="site__logo" href="/">{{.SiteTitle}}</a>
    {{template "topnav" .TopNav}}
    <div class="theme-switch" role="group" aria-label="Theme">
      {{range .Themes}}<button class="theme-switch__option{{if eq . $.Theme}} theme-switch__option--active{{end}}" data-theme-choice="{{.}}">{{.}}</button>{{end}}
    </div>
  </header>
  {{template "mobile" .}}
  {{if .Is "landing"}}
  {{template "landing" .}}
  {{else}}
  <div class="site__content">
    {{if .Is "page"}}{{template "page" .}}
    {{else if .Is "fixed"}}{{template "fixed" .}}
    {{else}}{{template "notfound" .}}{{end}}
  </div>
  {{end}}
  <footer class="site__footer"><a href="/search-index.json">Index</a></footer>
  <script src="/assets/script.js"></script>
</body>
</html>`

var partials = map[string]string{
	"topnav": `<nav class="navigation"><ul>
  {{range .}}<li class="navigation__item{{if .Active}} navigation__item--active{{end}}">
    <a href="{{.URL}}">{{.Content}}</a>
    {{if .Children}}<ul class="navigation__sub">{{range .Children}}<li><a href="{{.URL}}">{{.Content}}</a></li>{{end}}</ul>{{end}}
  </li>{{end}}
</ul></nav>`,

	"navtree": `<ul class="sidebar__list">
  {{range .}}<li class="sidebar__item">
    <a href="{{.URL}}">{{.Content}}</a>
    {{if .Children}}{{template "navtree" .Children}}{{end}}
  </li>{{end}}
</ul>`,

	"mobile": `<aside class="sidebar-mobile{{if .MobileSidebarOpen}} sidebar-mobile--open{{end}}" id="sidebar-mobile">
  {{template "navtree" .MobileSidebar}}
</aside>`,

	"landing": `<section class="splash">
  <h1>{{.SiteTitle}}</h1>
  <ul class="splash__sections">
    {{range .MobileSidebar}}<li><a href="{{.URL}}">{{.Content}}</a></li>{{end}}
  </ul>
</section>`,

	"page": `<aside class="sidebar">{{template "navtree" .Sidebar}}</aside>
<article class="page">
  <h1>{{.Page.Title}}</h1>
  {{if .Page.Anchors}}<ul class="page__anchors">{{range .Page.Anchors}}<li><a href="#{{.ID}}">{{.Title}}</a></li>{{end}}</ul>{{end}}
  <div class="page__content">{{.Page.Content}}</div>
  <nav class="page__links">
    {{with .Page.Previous}}<a class="page__prev" href="{{.URL}}">&laquo; {{.Content}}</a>{{end}}
    {{with .Page.Next}}<a class="page__next" href="{{.URL}}">{{.Content}} &raquo;</a>{{end}}
  </nav>
</article>`,

	"fixed": `{{if eq .Fixed "vote"}}<section class="vote"><h1>Vote</h1><p>Help us prioritize the features you need most.</p></section>
{{else if eq .Fixed "organization"}}<section class="organization"><h1>Organization</h1><p>The people and teams behind the project.</p></section>
{{else if eq .Fixed "starter-kits"}}<section class="starter-kits"><h1>Starter Kits</h1><p>Community boilerplates to start from.</p></section>
{{end}}`,

	"notfound": `<section class="page-not-found">
  <h1>Page Not Found</h1>
  <p>No page lives at <code>{{.Location.Pathname}}</code>. Try the <a href="/">home page</a>.</p>
</section>`,
}

// cssContent is the stylesheet for the site.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-secondary: #f2f6f8;
  --text: #2b3a42;
  --text-muted: #6b7c86;
  --border: #dedede;
  --accent: #1d78c1;
  --header-bg: #2b3a42;
  --header-text: #ffffff;
  --sidebar-width: 260px;
}

[data-theme="dark"] {
  --bg: #1b2228;
  --bg-secondary: #232c33;
  --text: #e3e8eb;
  --text-muted: #9aa8b0;
  --border: #36434c;
  --accent: #8dd6f9;
  --header-bg: #11171b;
}

@media (prefers-color-scheme: dark) {
  [data-theme="device"] {
    --bg: #1b2228;
    --bg-secondary: #232c33;
    --text: #e3e8eb;
    --text-muted: #9aa8b0;
    --border: #36434c;
    --accent: #8dd6f9;
    --header-bg: #11171b;
  }
}

*, *::before, *::after { box-sizing: border-box; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.6;
}

a { color: var(--accent); text-decoration: none; }
a:hover { text-decoration: underline; }

.site__header {
  display: flex;
  align-items: center;
  gap: 1.5rem;
  padding: 0.75rem 1.5rem;
  background: var(--header-bg);
  color: var(--header-text);
}
.site__logo { color: var(--header-text); font-weight: 600; font-size: 1.2rem; }

.navigation ul { list-style: none; margin: 0; padding: 0; display: flex; gap: 1rem; }
.navigation__item { position: relative; }
.navigation__item > a { color: var(--header-text); opacity: 0.8; }
.navigation__item--active > a { opacity: 1; border-bottom: 2px solid var(--accent); }
.navigation__sub { display: none !important; position: absolute; top: 100%; left: 0; background: var(--header-bg); padding: 0.5rem; flex-direction: column; }
.navigation__item:hover .navigation__sub { display: flex !important; }

.theme-switch { margin-left: auto; display: flex; gap: 0.25rem; }
.theme-switch__option { background: transparent; color: var(--header-text); border: 1px solid transparent; border-radius: 4px; cursor: pointer; text-transform: capitalize; }
.theme-switch__option--active { border-color: var(--header-text); }

.menu-toggle { display: none; background: none; border: 0; color: var(--header-text); font-size: 1.4rem; cursor: pointer; }

.site__content { display: flex; max-width: 1200px; margin: 0 auto; padding: 2rem 1.5rem; gap: 2rem; }

.sidebar { width: var(--sidebar-width); flex-shrink: 0; }
.sidebar__list { list-style: none; margin: 0; padding-left: 0; }
.sidebar__list .sidebar__list { padding-left: 1rem; }
.sidebar__item { margin: 0.25rem 0; }

.sidebar-mobile { display: none; }

.page { flex: 1; min-width: 0; }
.page__anchors { font-size: 0.9rem; color: var(--text-muted); }
.page__content pre { background: var(--bg-secondary); padding: 1rem; overflow-x: auto; border-radius: 4px; }
.page__content code { font-family: "SFMono-Regular", Consolas, monospace; font-size: 0.9em; }
.page__links { display: flex; justify-content: space-between; margin-top: 3rem; border-top: 1px solid var(--border); padding-top: 1rem; }
.page__next { margin-left: auto; }

.splash { text-align: center; padding: 4rem 1.5rem; background: var(--bg-secondary); }
.splash__sections { list-style: none; padding: 0; display: flex; justify-content: center; gap: 1.5rem; flex-wrap: wrap; }

.site__footer { border-top: 1px solid var(--border); padding: 1.5rem; text-align: center; color: var(--text-muted); }

@media (max-width: 768px) {
  .menu-toggle { display: block; }
  .navigation, .sidebar { display: none; }
  .sidebar-mobile { display: block; position: fixed; top: 0; bottom: 0; left: 0; width: 80%; max-width: 320px; padding: 1rem; background: var(--bg); border-right: 1px solid var(--border); transform: translateX(-100%); transition: transform 0.2s; overflow-y: auto; z-index: 10; }
  .sidebar-mobile--open { transform: translateX(0); }
}`

// jsContent drives the theme switch, the mobile sidebar and live reload.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;

  function post(url, body) {
    return fetch(url, {
      method: "POST",
      credentials: "same-origin",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(body)
    }).then(function(r) { return r.ok ? r.json() : null; }).catch(function() { return null; });
  }

  // ===== Theme =====
  document.querySelectorAll("[data-theme-choice]").forEach(function(btn) {
    btn.addEventListener("click", function() {
      var choice = btn.getAttribute("data-theme-choice");
      html.setAttribute("data-theme", choice);
      document.querySelectorAll("[data-theme-choice]").forEach(function(other) {
        other.classList.toggle("theme-switch__option--active", other === btn);
      });
      post("/api/theme", { theme: choice });
    });
  });

  // ===== Mobile sidebar =====
  var toggle = document.getElementById("menu-toggle");
  var mobile = document.getElementById("sidebar-mobile");
  if (toggle && mobile) {
    toggle.addEventListener("click", function() {
      post("/api/sidebar", {}).then(function(state) {
        var open = state ? state.open : !mobile.classList.contains("sidebar-mobile--open");
        mobile.classList.toggle("sidebar-mobile--open", open);
      });
    });
    mobile.addEventListener("click", function(e) {
      if (e.target.tagName === "A") {
        post("/api/sidebar", { open: false });
      }
    });
  }

  // ===== Live reload =====
  var reloadPath = document.body.getAttribute("data-reload");
  if (reloadPath && window.WebSocket) {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(scheme + location.host + reloadPath);
    ws.onmessage = function(e) {
      if (e.data === "reload") { location.reload(); }
    };
  }
})();`
