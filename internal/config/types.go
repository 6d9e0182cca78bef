package config

import "github.com/Jokero/webpack.js.org/internal/nav"

// LogFormat selects the log encoder.
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// Config is the top-level docsite configuration, corresponding to .docsite.yml.
type Config struct {
	SiteTitle    string       `yaml:"site_title" koanf:"site_title"`
	ContentFile  string       `yaml:"content_file" koanf:"content_file"`
	ContentDir   string       `yaml:"content_dir" koanf:"content_dir"`
	SourcePrefix string       `yaml:"source_prefix" koanf:"source_prefix"`
	DataDir      string       `yaml:"data_dir" koanf:"data_dir"`
	Include      []string     `yaml:"include" koanf:"include"`
	Exclude      []string     `yaml:"exclude" koanf:"exclude"`
	FixedRoutes  []string     `yaml:"fixed_routes" koanf:"fixed_routes"`
	Server       ServerConfig `yaml:"server" koanf:"server"`
	Nav          nav.Config   `yaml:"nav" koanf:"nav"`
	Log          LogConfig    `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
	Watch    bool `yaml:"watch" koanf:"watch"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}
