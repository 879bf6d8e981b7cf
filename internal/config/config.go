// Package config loads TaskMaster settings from defaults, TOML files,
// environment and flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	DefaultBackend     = BackendJSON
	DefaultSlot        = "todos"
	DefaultDataDir     = "~/.taskmaster"
	DefaultTheme       = "classic"
	DefaultDueSoonDays = 3
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"

	// SQLiteFile is created inside the data dir for the sqlite backend.
	SQLiteFile = "taskmaster.db"

	ProjectConfigFile = "taskmaster.toml"
)

var ErrInvalid = errors.New("invalid config")

// Config is the full settings tree.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`

	// ConfigFile is the explicit file given with --config, if any.
	ConfigFile string `toml:"-"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Slot    string `toml:"slot"`
}

type UIConfig struct {
	Theme       string `toml:"theme"`
	DueSoonDays int    `toml:"due_soon_days"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Timestamps bool   `toml:"timestamps"`
}

func setDefaults(cfg *Config) {
	cfg.Storage = StorageConfig{Backend: DefaultBackend, Dir: DefaultDataDir, Slot: DefaultSlot}
	cfg.UI = UIConfig{Theme: DefaultTheme, DueSoonDays: DefaultDueSoonDays}
	cfg.Log = LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat}
}

// Default returns a finalized default config.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	_ = finalizeConfig(cfg)
	return cfg
}

// SQLitePath is the database file for the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Storage.Dir, SQLiteFile)
}

// Validate rejects settings no component can honor.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("%w: storage.backend %q (want json|sqlite)", ErrInvalid, c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Slot) == "" {
		return fmt.Errorf("%w: storage.slot is empty", ErrInvalid)
	}
	if strings.ContainsAny(c.Storage.Slot, `/\`) {
		return fmt.Errorf("%w: storage.slot %q must not contain path separators", ErrInvalid, c.Storage.Slot)
	}
	switch c.UI.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("%w: ui.theme %q (want classic|neon|mono)", ErrInvalid, c.UI.Theme)
	}
	if c.UI.DueSoonDays < 0 {
		return fmt.Errorf("%w: ui.due_soon_days must be >= 0", ErrInvalid)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: log.format %q (want text|json|logfmt)", ErrInvalid, c.Log.Format)
	}
	return nil
}

func finalizeConfig(cfg *Config) error {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.UI.Theme = strings.ToLower(strings.TrimSpace(cfg.UI.Theme))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	cfg.Storage.Dir = expandPath(cfg.Storage.Dir)
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "."
	}
	if !filepath.IsAbs(cfg.Storage.Dir) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.Storage.Dir = filepath.Join(wd, cfg.Storage.Dir)
	}
	return cfg.Validate()
}

// expandPath expands environment variables and a leading ~.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
