package config

import (
	"path/filepath"

	"github.com/Jokero/webpack.js.org/internal/nav"
	"github.com/Jokero/webpack.js.org/internal/router"
)

// DefaultConfigFile is the configuration file read when --config is not given.
const DefaultConfigFile = ".docsite.yml"

// DefaultExcludes are glob patterns skipped when building the content tree.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"**/_*.md",
	"**/README.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteTitle:    "webpack",
		ContentFile:  "src/_content.json",
		ContentDir:   "src/content",
		SourcePrefix: "src/content/",
		DataDir:      ".docsite",
		Include:      []string{"**/*.md"},
		Exclude:      append([]string(nil), DefaultExcludes...),
		FixedRoutes:  append([]string(nil), router.DefaultFixedRoutes...),
		Server: ServerConfig{
			Port: 3000,
		},
		Nav: nav.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatConsole,
		},
	}
}

// SearchIndexPath is where the search index is written next to the content file.
func (c *Config) SearchIndexPath() string {
	return filepath.Join(filepath.Dir(c.ContentFile), "search-index.json")
}

// DatabasePath is the preference store inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "docsite.db")
}
