package walker

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SkipDirs are directory names never descended into.
var SkipDirs = []string{
	".git",
	"node_modules",
	".docsite",
	".idea",
	".vscode",
}

func skipDir(name string) bool {
	for _, d := range SkipDirs {
		if strings.EqualFold(name, d) {
			return true
		}
	}
	return false
}

// Matcher decides which slash-separated relative paths are content sources.
// A path must match an include pattern and no exclude or ignore pattern.
type Matcher struct {
	include []string
	exclude []string
	ignore  []string
}

// NewMatcher validates the glob patterns. An empty include list uses
// DefaultInclude.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return &Matcher{include: include, exclude: exclude}, nil
}

// Ignore adds .gitignore-style lines. Comments and blank lines are skipped.
func (m *Matcher) Ignore(lines []string) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.ignore = append(m.ignore, gitignoreGlobs(line)...)
	}
}

// Match reports whether relPath is a content source.
func (m *Matcher) Match(relPath string) bool {
	return matchesAny(relPath, m.include) &&
		!matchesAny(relPath, m.exclude) &&
		!matchesAny(relPath, m.ignore)
}

// gitignoreGlobs translates one .gitignore line to doublestar patterns.
// Lines without a slash match at any depth; a trailing slash matches only
// directories, i.e. everything below them.
func gitignoreGlobs(line string) []string {
	dirOnly := strings.HasSuffix(line, "/")
	line = strings.TrimSuffix(line, "/")

	anchored := strings.Contains(line, "/")
	line = strings.TrimPrefix(line, "/")
	if !anchored {
		line = "**/" + line
	}
	if dirOnly {
		return []string{line + "/**"}
	}
	return []string{line, line + "/**"}
}

// MatchesInclude reports whether relPath matches any include pattern. An
// empty pattern list includes everything.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// matchesAny also tries the bare file name, so "README.md" excludes it
// at any depth.
func matchesAny(relPath string, patterns []string) bool {
	base := path.Base(relPath)
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, base); matched {
				return true
			}
		}
	}
	return false
}
