package content

import (
	"sync/atomic"
)

// Source holds the current content tree. Readers take a snapshot per render;
// Reload swaps in a freshly loaded tree only if it validates.
type Source struct {
	path string
	tree atomic.Pointer[Node]
}

// Open loads the tree at path and returns a Source serving it.
func Open(path string) (*Source, error) {
	root, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Source{path: path}
	s.tree.Store(root)
	return s, nil
}

// Static returns a Source over an already-built tree. Reload is a no-op.
func Static(root *Node) *Source {
	s := &Source{}
	s.tree.Store(root)
	return s
}

// Tree returns the current snapshot. The returned tree must not be modified.
func (s *Source) Tree() *Node { return s.tree.Load() }

// Path returns the file backing the source, or "" for static sources.
func (s *Source) Path() string { return s.path }

// Reload re-reads the backing file. On error the previous tree stays active.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	root, err := Load(s.path)
	if err != nil {
		return err
	}
	s.tree.Store(root)
	return nil
}
