package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the serialization of a content tree file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the on-disk shape of a node, as written by the tree generator.
type document struct {
	Name     string      `json:"name,omitempty" yaml:"name,omitempty"`
	Title    string      `json:"title,omitempty" yaml:"title,omitempty"`
	URL      string      `json:"url,omitempty" yaml:"url,omitempty"`
	Type     string      `json:"type,omitempty" yaml:"type,omitempty"`
	Group    string      `json:"group,omitempty" yaml:"group,omitempty"`
	Sort     int         `json:"sort,omitempty" yaml:"sort,omitempty"`
	Anchors  []Anchor    `json:"anchors,omitempty" yaml:"anchors,omitempty"`
	Path     string      `json:"path,omitempty" yaml:"path,omitempty"`
	Children []*document `json:"children,omitempty" yaml:"children,omitempty"`
}

// FormatFor picks the format from a file extension. Unknown extensions are JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and validates the content tree stored at path.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content tree %s: %w", path, err)
	}
	root, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("loading content tree %s: %w", path, err)
	}
	return root, nil
}

// Parse decodes a content tree and validates it into typed nodes.
func Parse(data []byte, format Format) (*Node, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	}

	root, err := ingest(&doc, nil, 0)
	if err != nil {
		return nil, err
	}
	if err := checkUniqueURLs(root); err != nil {
		return nil, err
	}
	return root, nil
}

// ingest converts a decoded document into a Node, assigning its Kind and
// validating required fields. The root itself may omit name and url.
func ingest(doc *document, trail []string, depth int) (*Node, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w (%d) at %v", ErrTooDeep, MaxDepth, trail)
	}
	if depth > 0 {
		if doc.Name == "" {
			return nil, &MalformedNodeError{Trail: trail, Field: "name"}
		}
		if doc.URL == "" {
			return nil, &MalformedNodeError{Trail: append(trail, doc.Name), Field: "url"}
		}
	}

	node := &Node{
		Kind:    KindPage,
		Name:    doc.Name,
		Title:   doc.Title,
		URL:     doc.URL,
		Type:    doc.Type,
		Group:   doc.Group,
		Sort:    doc.Sort,
		Anchors: doc.Anchors,
		Path:    doc.Path,
	}
	if doc.Type == TypeDirectory || depth == 0 {
		node.Kind = KindDirectory
		node.Type = TypeDirectory
	}

	childTrail := append(append([]string(nil), trail...), doc.Name)
	for _, c := range doc.Children {
		if c == nil {
			return nil, &MalformedNodeError{Trail: childTrail, Field: "name"}
		}
		child, err := ingest(c, childTrail, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func checkUniqueURLs(root *Node) error {
	seen := make(map[string]string)
	var dup error
	root.Walk(func(n *Node, _ int) {
		if dup != nil || n.IsDirectory() {
			return
		}
		if prev, ok := seen[n.URL]; ok {
			dup = fmt.Errorf("%w: %s (%s and %s)", ErrDuplicateURL, n.URL, prev, n.Name)
			return
		}
		seen[n.URL] = n.Name
	})
	return dup
}

// Marshal encodes the tree in the given format.
func Marshal(root *Node, format Format) ([]byte, error) {
	doc := toDocument(root)
	if format == FormatYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Save writes the tree to path, choosing the format from the extension.
func Save(root *Node, path string) error {
	data, err := Marshal(root, FormatFor(path))
	if err != nil {
		return fmt.Errorf("encoding content tree: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func toDocument(n *Node) *document {
	doc := &document{
		Name:    n.Name,
		Title:   n.Title,
		URL:     n.URL,
		Type:    n.Type,
		Group:   n.Group,
		Sort:    n.Sort,
		Anchors: n.Anchors,
		Path:    n.Path,
	}
	if doc.Type == "" {
		doc.Type = TypeFile
		if n.IsDirectory() {
			doc.Type = TypeDirectory
		}
	}
	for _, c := range n.Children {
		doc.Children = append(doc.Children, toDocument(c))
	}
	return doc
}
