package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "DOCSITE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCSITE_*). A double underscore in a
// variable name separates nested keys: DOCSITE_SERVER__PORT sets server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults so that lists in the file replace, not extend, them.
	defaults, err := yamlv3.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps DOCSITE_SERVER__PORT to server.port.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogFormats = map[LogFormat]bool{
	LogFormatConsole: true,
	LogFormatJSON:    true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ContentFile == "" {
		return fmt.Errorf("content_file is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	for _, r := range c.FixedRoutes {
		if !strings.HasPrefix(r, "/") || r == "/" {
			return fmt.Errorf("invalid fixed route %q: must be an absolute path below /", r)
		}
	}

	doc := c.Nav.Documentation
	if doc.URL == "" {
		return fmt.Errorf("nav.documentation.url is required")
	}
	if doc.ActivePattern != "" {
		if _, err := regexp.Compile(doc.ActivePattern); err != nil {
			return fmt.Errorf("invalid nav.documentation.active_pattern: %w", err)
		}
	}
	if doc.Position < 0 {
		return fmt.Errorf("nav.documentation.position must be non-negative")
	}
	for i, l := range c.Nav.Links {
		if l.Content == "" || l.URL == "" {
			return fmt.Errorf("nav.links[%d] needs both content and url", i)
		}
	}

	if c.Log.Format != "" && !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log.format %q: must be one of console, json", c.Log.Format)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
		}
	}

	return nil
}
