package content

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/Jokero/webpack.js.org/internal/progress"
	"github.com/Jokero/webpack.js.org/internal/walker"
)

// SourceFile is one markdown file that will become a page of the tree.
type SourceFile struct {
	RelPath string // slash-separated, relative to the content directory
	Meta    Meta
}

// BuildOptions controls Build.
type BuildOptions struct {
	Dir          string   // content source directory
	SourcePrefix string   // prefix recorded in each page's Path, e.g. "src/content/"
	Title        string   // site title stored on the root node
	Include      []string // glob patterns, default "**/*.md"
	Exclude      []string
	Reporter     progress.Reporter // optional
}

// Build walks the markdown sources under opts.Dir and returns the content tree.
func Build(opts BuildOptions) (*Node, error) {
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: opts.Dir,
		Include: opts.Include,
		Exclude: opts.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("walking content dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no markdown files found in %s", opts.Dir)
	}

	rep := opts.Reporter
	if rep == nil {
		rep = progress.Discard{}
	}
	rep.Start(len(files))

	sources := make([]SourceFile, 0, len(files))
	for i, f := range files {
		rep.Update(i+1, f.RelPath)
		src, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.RelPath, err)
		}
		meta, err := ParseMeta(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.RelPath, err)
		}
		sources = append(sources, SourceFile{RelPath: f.RelPath, Meta: meta})
	}
	rep.Finish()

	root := BuildTree(sources, opts.SourcePrefix, opts.Title)
	if err := checkUniqueURLs(root); err != nil {
		return nil, err
	}
	return root, nil
}

// BuildTree constructs the content tree from markdown sources. Intermediate
// directories are created as needed; siblings are ordered by sort key, then
// directories before pages, then name.
func BuildTree(sources []SourceFile, sourcePrefix, title string) *Node {
	root := &Node{Kind: KindDirectory, Type: TypeDirectory, Title: title, URL: "/"}

	for _, src := range sources {
		p := strings.TrimPrefix(path.Clean("/"+src.RelPath), "/")
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			isLast := i == len(parts)-1
			var next *Node
			for _, child := range current.Children {
				if child.Name == part && child.IsDirectory() != isLast {
					next = child
					break
				}
			}
			if next == nil {
				if isLast {
					next = pageNode(part, p, sourcePrefix, src.Meta)
				} else {
					dirPath := strings.Join(parts[:i+1], "/")
					next = &Node{
						Kind:  KindDirectory,
						Type:  TypeDirectory,
						Name:  part,
						Title: formatDirName(part),
						URL:   "/" + dirPath + "/",
						Path:  path.Join(sourcePrefix, dirPath),
					}
				}
				current.Children = append(current.Children, next)
			}
			current = next
		}
	}

	adoptIndexMeta(root)
	sortTree(root)
	return root
}

func pageNode(name, relPath, sourcePrefix string, meta Meta) *Node {
	title := meta.Title
	if title == "" {
		title = meta.Heading
	}
	return &Node{
		Kind:    KindPage,
		Type:    TypeFile,
		Name:    name,
		Title:   title,
		URL:     PageURL(relPath),
		Group:   meta.Group,
		Sort:    meta.Sort,
		Anchors: meta.Anchors,
		Path:    path.Join(sourcePrefix, relPath),
	}
}

// PageURL derives the route of a markdown source: "a/b.md" -> "/a/b/",
// "a/index.md" -> "/a/", "index.md" -> "/".
func PageURL(relPath string) string {
	dir, file := path.Split(relPath)
	if strings.EqualFold(file, IndexName) {
		return "/" + dir
	}
	stem := strings.TrimSuffix(file, path.Ext(file))
	return "/" + dir + stem + "/"
}

// adoptIndexMeta gives each directory the title, sort and group of its
// index.md, when it has one.
func adoptIndexMeta(dir *Node) {
	for _, child := range dir.Children {
		if !child.IsDirectory() {
			continue
		}
		for _, c := range child.Children {
			if c.IsDirectory() || !c.IsIndex() {
				continue
			}
			if c.Title != "" {
				child.Title = c.Title
			}
			child.Sort = c.Sort
			child.Group = c.Group
			break
		}
		adoptIndexMeta(child)
	}
}

// sortTree recursively orders children by sort key, directories first, then name.
func sortTree(node *Node) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.Sort != b.Sort {
			return a.Sort < b.Sort
		}
		if a.IsDirectory() != b.IsDirectory() {
			return a.IsDirectory()
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		if child.IsDirectory() {
			sortTree(child)
		}
	}
}

// formatDirName converts a directory name to a human-readable display name.
func formatDirName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
