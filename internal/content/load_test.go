package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleJSON = `{
  "name": "content",
  "title": "webpack",
  "type": "directory",
  "children": [
    {"name": "index.md", "title": "webpack", "url": "/", "type": "file", "path": "src/content/index.md"},
    {"name": "concepts", "url": "/concepts/", "type": "directory", "children": [
      {"name": "index.md", "title": "Concepts", "url": "/concepts/", "type": "file", "path": "src/content/concepts/index.md",
       "anchors": [{"title": "Entry", "id": "entry"}]},
      {"name": "modules.md", "title": "Modules", "url": "/concepts/modules/", "type": "file", "sort": 3}
    ]}
  ]
}`

func TestParseJSON(t *testing.T) {
	root, err := Parse([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !root.IsDirectory() {
		t.Error("root should be a directory")
	}
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}
	if root.Children[0].Kind != KindPage {
		t.Errorf("index.md kind = %v, want page", root.Children[0].Kind)
	}
	concepts := root.Children[1]
	if concepts.Kind != KindDirectory {
		t.Errorf("concepts kind = %v, want directory", concepts.Kind)
	}
	if got := concepts.Children[0].Anchors; len(got) != 1 || got[0].ID != "entry" {
		t.Errorf("anchors = %+v", got)
	}
	if concepts.Children[1].Sort != 3 {
		t.Errorf("sort = %d, want 3", concepts.Children[1].Sort)
	}
}

func TestParseYAML(t *testing.T) {
	src := `
title: docs
children:
  - name: guides
    url: /guides/
    type: directory
    children:
      - name: index.md
        url: /guides/
        type: file
`
	root, err := Parse([]byte(src), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.Title != "docs" {
		t.Errorf("title = %q", root.Title)
	}
	if got := root.Children[0].Children[0].URL; got != "/guides/" {
		t.Errorf("url = %q", got)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"missing name", `{"children":[{"url":"/a/"}]}`, "name"},
		{"missing url", `{"children":[{"name":"a.md"}]}`, "url"},
		{"nested missing url", `{"children":[{"name":"a","url":"/a/","type":"directory","children":[{"name":"b.md"}]}]}`, "url"},
		{"null child", `{"children":[null]}`, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), FormatJSON)
			if !errors.Is(err, ErrMalformedNode) {
				t.Fatalf("err = %v, want ErrMalformedNode", err)
			}
			var mErr *MalformedNodeError
			if !errors.As(err, &mErr) {
				t.Fatalf("err is not *MalformedNodeError: %T", err)
			}
			if mErr.Field != tt.field {
				t.Errorf("field = %q, want %q", mErr.Field, tt.field)
			}
		})
	}
}

func TestParseDuplicateURL(t *testing.T) {
	src := `{"children":[
		{"name":"a.md","url":"/a/","type":"file"},
		{"name":"b.md","url":"/a/","type":"file"}
	]}`
	if _, err := Parse([]byte(src), FormatJSON); !errors.Is(err, ErrDuplicateURL) {
		t.Fatalf("err = %v, want ErrDuplicateURL", err)
	}
}

func TestParseDirectoryAndIndexShareURL(t *testing.T) {
	src := `{"children":[{"name":"a","url":"/a/","type":"directory","children":[
		{"name":"index.md","url":"/a/","type":"file"}]}]}`
	if _, err := Parse([]byte(src), FormatJSON); err != nil {
		t.Fatalf("directory and its index page may share a url: %v", err)
	}
}

func TestParseTooDeep(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"children":[`)
	for i := 0; i < MaxDepth+1; i++ {
		b.WriteString(`{"name":"d","url":"/d/","type":"directory","children":[`)
	}
	for i := 0; i < MaxDepth+1; i++ {
		b.WriteString(`]}`)
	}
	b.WriteString(`]}`)

	if _, err := Parse([]byte(b.String()), FormatJSON); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("err = %v, want ErrTooDeep", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	root, err := Parse([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for _, name := range []string{"_content.json", "_content.yml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := Save(root, path); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if got := loaded.Children[1].Children[1].URL; got != "/concepts/modules/" {
			t.Errorf("%s: url = %q", name, got)
		}
		if loaded.Children[1].Kind != KindDirectory {
			t.Errorf("%s: directory kind lost", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestSourceReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "_content.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first := src.Tree()

	// A broken file keeps the previous tree.
	if err := os.WriteFile(path, []byte(`{"children":[{"url":"/x/"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := src.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if src.Tree() != first {
		t.Error("tree replaced by invalid content")
	}

	if err := os.WriteFile(path, []byte(`{"title":"v2","children":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := src.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if src.Tree().Title != "v2" {
		t.Errorf("title = %q, want v2", src.Tree().Title)
	}
}

func TestWalkOrder(t *testing.T) {
	root, err := Parse([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var urls []string
	root.Walk(func(n *Node, depth int) {
		if depth > 0 {
			urls = append(urls, n.URL)
		}
	})
	want := []string{"/", "/concepts/", "/concepts/", "/concepts/modules/"}
	if strings.Join(urls, " ") != strings.Join(want, " ") {
		t.Errorf("walk order = %v, want %v", urls, want)
	}
}
