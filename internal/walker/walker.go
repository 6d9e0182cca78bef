// Package walker discovers the markdown sources of the content tree.
package walker

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxFileSize is the largest markdown source read (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// DefaultInclude matches every markdown source.
var DefaultInclude = []string{"**/*.md"}

// FileInfo describes one content source.
type FileInfo struct {
	Path    string // on-disk path, empty when walking an fs.FS
	RelPath string // slash-separated, relative to the root
	Size    int64
}

// WalkerConfig controls Walk.
type WalkerConfig struct {
	RootDir     string
	Include     []string // glob patterns; empty means DefaultInclude
	Exclude     []string
	MaxFileSize int64 // 0 means DefaultMaxFileSize
}

// Walk lists the content sources below config.RootDir, honouring a
// .gitignore at the root, sorted by relative path.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	files, err := WalkFS(os.DirFS(root), config)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].Path = filepath.Join(root, filepath.FromSlash(files[i].RelPath))
	}
	return files, nil
}

// WalkFS is Walk over an arbitrary file system. config.RootDir is ignored.
func WalkFS(fsys fs.FS, config WalkerConfig) ([]FileInfo, error) {
	m, err := NewMatcher(config.Include, config.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if data, err := fs.ReadFile(fsys, ".gitignore"); err == nil {
		m.Ignore(strings.Split(string(data), "\n"))
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var files []FileInfo
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		if d.IsDir() {
			if p != "." && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !m.Match(p) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}
		if isBinary(fsys, p) {
			return nil
		}
		files = append(files, FileInfo{RelPath: p, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// isBinary looks for a NUL byte in the first 512 bytes.
func isBinary(fsys fs.FS, name string) bool {
	f, err := fsys.Open(name)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return bytes.IndexByte(buf[:n], 0) >= 0
}
