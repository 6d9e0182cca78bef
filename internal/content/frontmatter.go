package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header of a markdown source.
type FrontMatter struct {
	Title string `yaml:"title"`
	Sort  int    `yaml:"sort"`
	Group string `yaml:"group"`
}

// Meta is everything the tree needs to know about one markdown source.
type Meta struct {
	FrontMatter
	Heading string // first level-1 heading, used when no title is set
	Anchors []Anchor
}

var fence = []byte("---")

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Sources without one return a nil header.
func SplitFrontMatter(src []byte) (header, body []byte) {
	trimmed := bytes.TrimPrefix(src, []byte("\ufeff"))
	if !bytes.HasPrefix(trimmed, fence) {
		return nil, src
	}
	rest := trimmed[len(fence):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, src
	}
	rest = rest[nl+1:]

	for offset := 0; offset < len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if bytes.Equal(bytes.TrimRight(line, " \r"), fence) {
			header = rest[:offset]
			if end < 0 {
				return header, nil
			}
			return header, rest[offset+end+1:]
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, src
}

// ParseMeta reads the front matter and headings of a markdown source.
func ParseMeta(src []byte) (Meta, error) {
	var meta Meta
	header, body := SplitFrontMatter(src)
	if header != nil {
		if err := yaml.Unmarshal(header, &meta.FrontMatter); err != nil {
			return Meta{}, fmt.Errorf("parsing front matter: %w", err)
		}
	}

	md := goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	doc := md.Parser().Parse(text.NewReader(body))

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := plainText(h, body)
		switch h.Level {
		case 1:
			if meta.Heading == "" {
				meta.Heading = title
			}
		case 2:
			id := ""
			if v, ok := h.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok {
					id = string(b)
				}
			}
			meta.Anchors = append(meta.Anchors, Anchor{Title: title, ID: id})
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return Meta{}, err
	}
	return meta, nil
}

// plainText concatenates the literal text below n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
