package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/Jokero/webpack.js.org/internal/content"
)

// highlightStyle is the chroma style used for code blocks.
const highlightStyle = "github"

// ErrContentNotFound is returned when a page's source file does not exist.
var ErrContentNotFound = errors.New("content not found")

// Resolver returns the rendered body of a page from its source identifier.
// It is called once per render, only for the page being shown.
type Resolver interface {
	Resolve(ctx context.Context, path string) (template.HTML, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, path string) (template.HTML, error)

func (f ResolverFunc) Resolve(ctx context.Context, path string) (template.HTML, error) {
	return f(ctx, path)
}

// MarkdownResolver renders markdown sources from a content directory.
type MarkdownResolver struct {
	Dir string
	// Prefix is removed from node paths before they are joined to Dir,
	// e.g. "src/content/".
	Prefix string

	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownResolver creates a resolver reading from dir.
func NewMarkdownResolver(dir, prefix string) *MarkdownResolver {
	return &MarkdownResolver{
		Dir:    dir,
		Prefix: prefix,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle(highlightStyle),
					highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		policy: newContentPolicy(),
	}
}

// Resolve reads, renders and sanitizes the page at path.
func (r *MarkdownResolver) Resolve(ctx context.Context, path string) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := strings.TrimPrefix(filepath.ToSlash(path), r.Prefix)
	if rel == "" || !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("%w: invalid path %q", ErrContentNotFound, path)
	}

	src, err := os.ReadFile(filepath.Join(r.Dir, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrContentNotFound, rel)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rel, err)
	}

	return r.Render(src)
}

// Render converts markdown (with optional front matter) to sanitized HTML.
func (r *MarkdownResolver) Render(src []byte) (template.HTML, error) {
	_, body := content.SplitFrontMatter(src)

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// HighlightCSS returns the stylesheet for class-based code highlighting.
func HighlightCSS() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return "", fmt.Errorf("writing highlight css: %w", err)
	}
	return buf.String(), nil
}

func newContentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("pre", "code", "span", "div", "p")
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.RequireNoFollowOnLinks(false)
	return policy
}
