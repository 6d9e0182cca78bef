package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// contentDirCandidates are checked in order to suggest a content directory.
var contentDirCandidates = []string{"src/content", "content", "docs"}

// detectContentDir returns the first candidate directory that exists.
func detectContentDir() string {
	for _, dir := range contentDirCandidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docsite! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	if dir := detectContentDir(); dir != "" {
		fmt.Printf("Detected content directory: %s\n\n", dir)
		cfg.ContentDir = dir
		cfg.SourcePrefix = strings.TrimSuffix(dir, "/") + "/"
	}

	// 1. Site title.
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: cfg.SiteTitle,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.SiteTitle = title

	// 2. Content directory.
	dirPrompt := promptui.Prompt{
		Label:   "Markdown content directory",
		Default: cfg.ContentDir,
	}
	dir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if dir != cfg.ContentDir {
		cfg.ContentDir = dir
		cfg.SourcePrefix = strings.TrimSuffix(dir, "/") + "/"
	}

	// 3. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:    "Server port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. Log format.
	formatPrompt := promptui.Select{
		Label: "Log format",
		Items: []string{
			"console - human readable",
			"json    - structured, for log shippers",
		},
	}
	formatIdx, _, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log format: %w", err)
	}
	cfg.Log.Format = []LogFormat{LogFormatConsole, LogFormatJSON}[formatIdx]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("port must be a number")
	}
	if port < 1 || port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
