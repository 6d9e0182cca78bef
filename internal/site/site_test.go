package site

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jokero/webpack.js.org/internal/content"
	"github.com/Jokero/webpack.js.org/internal/kv"
	"github.com/Jokero/webpack.js.org/internal/nav"
	"github.com/Jokero/webpack.js.org/internal/router"
	"github.com/Jokero/webpack.js.org/internal/theme"
)

func page(name, title, url string) *content.Node {
	return &content.Node{Kind: content.KindPage, Name: name, Title: title, URL: url, Path: "src/content/" + strings.Trim(url, "/") + ".md"}
}

func dir(name, title, url string, children ...*content.Node) *content.Node {
	return &content.Node{Kind: content.KindDirectory, Name: name, Title: title, URL: url, Children: children}
}

func testTree() *content.Node {
	return dir("", "webpack", "/",
		page("index.md", "webpack", "/"),
		dir("concepts", "Concepts", "/concepts/",
			page("index.md", "Concepts", "/concepts/"),
			page("entry-points.md", "Entry Points", "/concepts/entry-points/"),
			page("modules.md", "Modules", "/concepts/modules/"),
			page("printable.md", "", "/concepts/printable/"),
		),
		dir("guides", "Guides", "/guides/",
			page("index.md", "Guides", "/guides/"),
		),
		page("glossary.md", "Glossary", "/glossary/"),
		dir("contribute", "Contribute", "/contribute/",
			page("index.md", "Contribute", "/contribute/"),
		),
	)
}

func echoResolver() Resolver {
	return ResolverFunc(func(_ context.Context, path string) (template.HTML, error) {
		return template.HTML("<p>" + path + "</p>"), nil
	})
}

func newTestSite(resolver Resolver) *Site {
	return New(content.Static(testTree()), resolver, Config{Nav: nav.DefaultConfig()}, nil)
}

func TestRenderPage(t *testing.T) {
	ctx := context.Background()
	c := newTestSite(echoResolver()).NewController(ctx, kv.NewMemoryStore())

	v, err := c.Render(ctx, Location{Pathname: "/concepts/entry-points/"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if v.Outcome != router.OutcomePage {
		t.Fatalf("outcome = %v, want page", v.Outcome)
	}
	if v.Title != "Entry Points | webpack" {
		t.Errorf("title = %q", v.Title)
	}
	if v.Section != "/concepts/" {
		t.Errorf("section = %q", v.Section)
	}
	if len(v.Sidebar) != 3 {
		t.Errorf("sidebar = %+v, want 3 visible concepts pages", v.Sidebar)
	}
	if v.Page.Content != "<p>src/content/concepts/entry-points.md</p>" {
		t.Errorf("content = %q", v.Page.Content)
	}
	if v.Page.Previous == nil || v.Page.Previous.URL != "/concepts/" {
		t.Errorf("previous = %+v", v.Page.Previous)
	}
	if v.Page.Next == nil || v.Page.Next.URL != "/concepts/modules/" {
		t.Errorf("next = %+v", v.Page.Next)
	}
	if len(v.TopNav) != 4 || !v.TopNav[0].Active {
		t.Errorf("top nav = %+v", v.TopNav)
	}
	if v.Theme != theme.Device {
		t.Errorf("theme = %q", v.Theme)
	}
}

func TestRenderAdjacencyStaysInSection(t *testing.T) {
	ctx := context.Background()
	c := newTestSite(nil).NewController(ctx, nil)

	v, err := c.Render(ctx, Location{Pathname: "/concepts/modules/"})
	if err != nil {
		t.Fatal(err)
	}
	if v.Page.Next != nil {
		t.Errorf("last page of section should have no next, got %q", v.Page.Next.URL)
	}

	v, err = c.Render(ctx, Location{Pathname: "/guides/"})
	if err != nil {
		t.Fatal(err)
	}
	if v.Page.Previous != nil || v.Page.Next != nil {
		t.Errorf("single-page section: %+v / %+v", v.Page.Previous, v.Page.Next)
	}
}

func TestRenderOutcomes(t *testing.T) {
	ctx := context.Background()
	c := newTestSite(nil).NewController(ctx, nil)

	tests := []struct {
		path    string
		outcome router.Outcome
	}{
		{"/concepts/modules", router.OutcomeRedirect},
		{"/", router.OutcomeLanding},
		{"/vote/", router.OutcomeFixed},
		{"/organization/", router.OutcomeFixed},
		{"/glossary/", router.OutcomePage},
		{"/nope/", router.OutcomeNotFound},
	}
	for _, tt := range tests {
		v, err := c.Render(ctx, Location{Pathname: tt.path})
		if err != nil {
			t.Fatalf("Render(%q): %v", tt.path, err)
		}
		if v.Outcome != tt.outcome {
			t.Errorf("Render(%q) outcome = %v, want %v", tt.path, v.Outcome, tt.outcome)
		}
	}

	v, _ := c.Render(ctx, Location{Pathname: "/concepts/modules"})
	if v.Redirect != "/concepts/modules/" {
		t.Errorf("redirect = %q", v.Redirect)
	}

	v, _ = c.Render(ctx, Location{Pathname: "/glossary/"})
	if len(v.Sidebar) != 1 || v.Sidebar[0].URL != "/glossary/" {
		t.Errorf("top-level sidebar = %+v", v.Sidebar)
	}
	if v.Title != "Glossary | webpack" {
		t.Errorf("title = %q", v.Title)
	}

	v, _ = c.Render(ctx, Location{Pathname: "/nope/"})
	if v.Title != "webpack" || v.Page != nil {
		t.Errorf("not found view = %+v", v)
	}
}

func TestRenderResolverErrors(t *testing.T) {
	ctx := context.Background()

	missing := ResolverFunc(func(context.Context, string) (template.HTML, error) {
		return "", ErrContentNotFound
	})
	v, err := newTestSite(missing).NewController(ctx, nil).Render(ctx, Location{Pathname: "/glossary/"})
	if err != nil || v.Page == nil || v.Page.Content != "" {
		t.Errorf("missing source should render an empty page, got %+v, %v", v, err)
	}

	broken := ResolverFunc(func(context.Context, string) (template.HTML, error) {
		return "", errors.New("disk on fire")
	})
	if _, err := newTestSite(broken).NewController(ctx, nil).Render(ctx, Location{Pathname: "/glossary/"}); err == nil {
		t.Error("expected resolver error")
	}
}

func TestRenderMalformedTree(t *testing.T) {
	ctx := context.Background()
	tree := testTree()
	tree.Children[1].Children[1].URL = ""
	s := New(content.Static(tree), nil, Config{Nav: nav.DefaultConfig()}, nil)

	_, err := s.NewController(ctx, nil).Render(ctx, Location{Pathname: "/concepts/"})
	if !errors.Is(err, content.ErrMalformedNode) {
		t.Errorf("err = %v, want ErrMalformedNode", err)
	}
}

func TestControllerSidebar(t *testing.T) {
	ctx := context.Background()
	c := newTestSite(nil).NewController(ctx, nil)

	if c.SidebarOpen() {
		t.Fatal("sidebar should start closed")
	}
	if !c.ToggleSidebar() {
		t.Error("toggle should open")
	}
	v, _ := c.Render(ctx, Location{Pathname: "/"})
	if !v.MobileSidebarOpen {
		t.Error("view should reflect open sidebar")
	}
	c.SetSidebar(false)
	if c.ToggleSidebar() != true || c.ToggleSidebar() != false {
		t.Error("toggle sequence")
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) { return "", errors.New("denied") }
func (failingStore) Set(context.Context, string, string) error   { return errors.New("denied") }

func TestControllerTheme(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	s := newTestSite(nil)

	c := s.NewController(ctx, store)
	if c.Theme() != theme.Device || c.AppliedTheme() != theme.Device {
		t.Fatalf("initial theme = %q / %q", c.Theme(), c.AppliedTheme())
	}
	if err := c.SwitchTheme(ctx, theme.Dark); err != nil {
		t.Fatal(err)
	}
	if stored, _ := store.Get(ctx, theme.StorageKey); stored != "dark" {
		t.Errorf("stored = %q", stored)
	}
	v, _ := c.Render(ctx, Location{Pathname: "/"})
	if v.Theme != theme.Dark {
		t.Errorf("view theme = %q", v.Theme)
	}

	// A later session over the same store starts from the stored value.
	if again := s.NewController(ctx, store); again.Theme() != theme.Dark {
		t.Errorf("restored theme = %q", again.Theme())
	}

	failing := s.NewController(ctx, failingStore{})
	if err := failing.SwitchTheme(ctx, theme.Light); err != nil {
		t.Fatalf("store failure leaked: %v", err)
	}
	if failing.Theme() != theme.Light || failing.AppliedTheme() != theme.Light {
		t.Errorf("theme after failed write = %q / %q", failing.Theme(), failing.AppliedTheme())
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	sessions, err := NewSessions(newTestSite(nil), store, 2)
	if err != nil {
		t.Fatal(err)
	}

	a := sessions.Get(ctx, "a")
	if sessions.Get(ctx, "a") != a {
		t.Error("same id should return the same controller")
	}
	if err := a.SwitchTheme(ctx, theme.Dark); err != nil {
		t.Fatal(err)
	}
	if b := sessions.Get(ctx, "b"); b.Theme() != theme.Device {
		t.Errorf("session b sees %q", b.Theme())
	}

	sessions.Get(ctx, "c") // evicts a
	if sessions.Len() != 2 {
		t.Errorf("Len = %d, want 2", sessions.Len())
	}
	restored := sessions.Get(ctx, "a")
	if restored == a {
		t.Error("a should have been evicted")
	}
	if restored.Theme() != theme.Dark {
		t.Errorf("evicted session lost its theme: %q", restored.Theme())
	}
}

// slowStore blocks reads of keys under block until release is closed.
type slowStore struct {
	kv.Store
	block   string
	started chan struct{}
	release chan struct{}
}

func (s *slowStore) Get(ctx context.Context, key string) (string, error) {
	if strings.HasPrefix(key, s.block) {
		s.started <- struct{}{}
		<-s.release
	}
	return s.Store.Get(ctx, key)
}

func TestSessionsLoadOutsideLock(t *testing.T) {
	ctx := context.Background()
	store := &slowStore{
		Store:   kv.NewMemoryStore(),
		block:   "session/slow/",
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	sessions, err := NewSessions(newTestSite(nil), store, 8)
	if err != nil {
		t.Fatal(err)
	}
	fast := sessions.Get(ctx, "fast")

	var wg sync.WaitGroup
	got := make([]*Controller, 2)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = sessions.Get(ctx, "slow")
		}(i)
	}
	<-store.started

	done := make(chan *Controller)
	go func() { done <- sessions.Get(ctx, "fast") }()
	select {
	case c := <-done:
		if c != fast {
			t.Error("existing session should be returned")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("existing session blocked behind a loading one")
	}

	close(store.release)
	wg.Wait()
	if got[0] != got[1] {
		t.Error("concurrent first use of an id should share one controller")
	}
	if sessions.Len() != 2 {
		t.Errorf("Len = %d, want 2", sessions.Len())
	}
}

func TestRoutes(t *testing.T) {
	routes := newTestSite(nil).Routes()
	var pages int
	for _, r := range routes {
		if r.Kind == router.OutcomePage {
			pages++
		}
	}
	// Every page except the landing page.
	if pages != 7 {
		t.Errorf("page routes = %d, want 7", pages)
	}
}

func TestMarkdownResolver(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "concepts"), 0o755); err != nil {
		t.Fatal(err)
	}
	src := "---\ntitle: Modules\n---\n## Intro\n\n```js\nconst a = 1;\n```\n\n<script>alert(1)</script>\n"
	if err := os.WriteFile(filepath.Join(dir, "concepts", "modules.md"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewMarkdownResolver(dir, "src/content/")
	got, err := r.Resolve(context.Background(), "src/content/concepts/modules.md")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	html := string(got)
	if strings.Contains(html, "title: Modules") {
		t.Error("front matter leaked into body")
	}
	if !strings.Contains(html, `<h2 id="intro">Intro</h2>`) {
		t.Errorf("heading missing: %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Error("script tag survived sanitizing")
	}
	if !strings.Contains(html, `class="chroma"`) {
		t.Errorf("code block not highlighted: %s", html)
	}

	if _, err := r.Resolve(context.Background(), "src/content/missing.md"); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("missing err = %v", err)
	}
	if _, err := r.Resolve(context.Background(), "../../etc/passwd"); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("traversal err = %v", err)
	}
}

func TestHighlightCSS(t *testing.T) {
	css, err := HighlightCSS()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("css = %.80s", css)
	}
}

func TestBuildSearchIndex(t *testing.T) {
	tree := testTree()
	tree.Children[1].Children[2].Anchors = []content.Anchor{{Title: "What is a webpack Module", ID: "what-is-a-webpack-module"}}

	entries := BuildSearchIndex(tree)
	var urls []string
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	want := "/ /concepts/ /concepts/entry-points/ /concepts/modules/ /guides/ /glossary/ /contribute/"
	if got := strings.Join(urls, " "); got != want {
		t.Errorf("urls = %s, want %s", got, want)
	}
	if entries[3].Section != "Concepts" || len(entries[3].Anchors) != 1 {
		t.Errorf("modules entry = %+v", entries[3])
	}

	path := filepath.Join(t.TempDir(), "search-index.json")
	if err := WriteSearchIndex(entries, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"title": "Modules"`) {
		t.Errorf("index file = %s", data)
	}
}

func TestRenderer(t *testing.T) {
	ctx := context.Background()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	r.LiveReload = true
	c := newTestSite(echoResolver()).NewController(ctx, nil)
	_ = c.SwitchTheme(ctx, theme.Dark)

	tests := []struct {
		path string
		want []string
	}{
		{"/concepts/modules/", []string{
			`data-theme="dark"`,
			"<title>Modules | webpack</title>",
			"src/content/concepts/modules.md",
			`class="page__prev" href="/concepts/entry-points/"`,
			`data-reload="/ws/reload"`,
		}},
		{"/", []string{`class="splash"`}},
		{"/vote/", []string{`class="vote"`}},
		{"/missing/", []string{"Page Not Found", "/missing/"}},
	}
	for _, tt := range tests {
		v, err := c.Render(ctx, Location{Pathname: tt.path})
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := r.Render(&buf, v); err != nil {
			t.Fatalf("Render(%q): %v", tt.path, err)
		}
		for _, w := range tt.want {
			if !strings.Contains(buf.String(), w) {
				t.Errorf("Render(%q) missing %q", tt.path, w)
			}
		}
	}

	v, _ := c.Render(ctx, Location{Pathname: "/glossary"})
	if err := r.Render(&bytes.Buffer{}, v); err == nil {
		t.Error("rendering a redirect should fail")
	}
}

func TestAsset(t *testing.T) {
	for _, name := range []string{"style.css", "script.js", "highlight.css"} {
		if data, ctype, ok := Asset(name); !ok || data == "" || ctype == "" {
			t.Errorf("Asset(%q) missing", name)
		}
	}
	if _, _, ok := Asset("nope.js"); ok {
		t.Error("unknown asset should not resolve")
	}
}
