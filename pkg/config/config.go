// Package config handles the per-project build configuration.
//
// Configuration lives in a naucse.yml file at the project root, next to
// the content tree it describes.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the project configuration file.
const ConfigFileName = "naucse.yml"

// SiteConfig holds site-wide settings.
type SiteConfig struct {
	// Title is the site title used on index pages.
	Title string `yaml:"title,omitempty"`
	// BaseURL prefixes all generated URLs (e.g. "/" or a subpath for
	// hosted deployments).
	BaseURL string `yaml:"base_url,omitempty"`
}

// BuildConfig controls where content is read from and written to.
type BuildConfig struct {
	// ContentDir is the content tree (or bundle) location, relative to
	// the config file.
	ContentDir string `yaml:"content,omitempty"`
	// OutputDir is where the rendered site is written.
	OutputDir string `yaml:"output,omitempty"`
}

// WatchConfig controls rebuild-on-change behavior.
type WatchConfig struct {
	// Enabled turns on the file watcher in serve/watch mode.
	Enabled bool `yaml:"enabled,omitempty"`
	// ForcePoll forces polling even when fsnotify is available.
	ForcePoll bool `yaml:"force_poll,omitempty"`
}

// Config is the top-level project configuration.
type Config struct {
	Site  SiteConfig  `yaml:"site,omitempty"`
	Build BuildConfig `yaml:"build,omitempty"`
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			BaseURL: "/",
		},
		Build: BuildConfig{
			ContentDir: "content",
			OutputDir:  "_site",
		},
	}
}

// Load reads naucse.yml from the given project directory.
// Returns DefaultConfig if the file doesn't exist.
func Load(projectDir string) (Config, error) {
	return LoadFrom(filepath.Join(projectDir, ConfigFileName))
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "/"
	}
	if cfg.Build.ContentDir == "" {
		cfg.Build.ContentDir = "content"
	}
	if cfg.Build.OutputDir == "" {
		cfg.Build.OutputDir = "_site"
	}

	return cfg, nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
