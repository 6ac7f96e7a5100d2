package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Project is the root of a sitebuilder project configuration, loaded from
// sitebuilder.yaml in the project directory.
type Project struct {
	Site    SiteConfig    `yaml:"site,omitempty"`
	Build   BuildConfig   `yaml:"build"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`

	// Root is the absolute directory containing the configuration file.
	// Set by Load; every relative path in the configuration resolves
	// against it.
	Root string `yaml:"-"`
}

// SiteConfig carries presentation metadata consumed by layout templates.
type SiteConfig struct {
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// OutputConfig describes the primary output tree.
type OutputConfig struct {
	Dir   string `yaml:"dir,omitempty"`
	Clean bool   `yaml:"clean,omitempty"` // empty the output root before building
}

// WatchConfig tunes watch mode. Durations are configured as strings
// ("300ms", "30m") and validated at load time.
type WatchConfig struct {
	Debounce    string `yaml:"debounce,omitempty"`
	FullRebuild string `yaml:"full_rebuild,omitempty"`
}

// DebounceInterval returns the parsed event debounce window.
func (w WatchConfig) DebounceInterval() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// FullRebuildInterval returns the periodic full-rebuild interval and whether
// one is configured.
func (w WatchConfig) FullRebuildInterval() (time.Duration, bool) {
	if w.FullRebuild == "" {
		return 0, false
	}
	d, err := time.ParseDuration(w.FullRebuild)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// HistoryConfig controls the per-project build history database.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// Record reports whether builds should be persisted to history, falling back
// to def when the setting is absent. Watch mode defaults to recording, a
// one-shot build does not.
func (h HistoryConfig) Record(def bool) bool {
	if h.Enabled == nil {
		return def
	}
	return *h.Enabled
}

// NotifyConfig configures the optional NATS build notification publisher.
type NotifyConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Enabled reports whether notifications are configured.
func (n NotifyConfig) Enabled() bool { return n.URL != "" }

// Load reads, expands, and validates a project configuration file.
// Values from .env/.env.local are made available for ${VAR} expansion
// before the file is parsed.
func Load(path string) (*Project, error) {
	loadEnv()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var project Project
	if err := yaml.Unmarshal([]byte(expanded), &project); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	project.Root = root

	project.applyDefaults()

	if err := Validate(&project); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return &project, nil
}

// loadEnv loads .env files so their values can be referenced from the
// configuration. Existing environment variables always win.
func loadEnv() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Debug("skipping env file", logfields.Path(name), logfields.Error(err))
			continue
		}
		slog.Debug("loaded env file", logfields.Path(name))
	}
}
