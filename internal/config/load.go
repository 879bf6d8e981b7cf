package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load resolves configuration from, in increasing priority:
//  1. defaults
//  2. user file ($XDG_CONFIG_HOME/taskmaster/config.toml)
//  3. project file (taskmaster.toml in the working dir) or --config
//  4. TASKMASTER_* environment variables
//  5. flags
//
// Flags are registered on fs and parsed from args; fs.Args() holds the
// remaining positional arguments afterwards.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		fs = flag.NewFlagSet("taskmaster", flag.ContinueOnError)
	}
	var fl flagValues
	fl.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := &Config{}
	setDefaults(cfg)

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}

	if fl.configFile != "" {
		if err := loadConfigFile(cfg, fl.configFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", fl.configFile, err)
		}
		cfg.ConfigFile = fl.configFile
	} else if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	fl.apply(cfg, fs)

	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return fmt.Errorf("%w: unknown key %q", ErrInvalid, undec[0].String())
	}
	return nil
}

func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "taskmaster", "config.toml")
	if fileExists(p) {
		return p
	}
	return ""
}

func findProjectConfigFile() string {
	if fileExists(ProjectConfigFile) {
		return ProjectConfigFile
	}
	return ""
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKMASTER_STORAGE"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TASKMASTER_DATA_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("TASKMASTER_SLOT"); v != "" {
		cfg.Storage.Slot = v
	}
	if v := os.Getenv("TASKMASTER_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("TASKMASTER_DUE_SOON_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: TASKMASTER_DUE_SOON_DAYS=%q", ErrInvalid, v)
		}
		cfg.UI.DueSoonDays = n
	}
	if v := os.Getenv("TASKMASTER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TASKMASTER_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TASKMASTER_LOG_TIMESTAMPS"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: TASKMASTER_LOG_TIMESTAMPS=%q", ErrInvalid, v)
		}
		cfg.Log.Timestamps = on
	}
	return nil
}

// flagValues holds root flags until we know which were set explicitly.
type flagValues struct {
	configFile string
	backend    string
	dataDir    string
	slot       string
	theme      string
	logLevel   string
	logFormat  string
}

func (f *flagValues) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configFile, "config", "", "path to a TOML config file")
	fs.StringVar(&f.backend, "storage", "", "storage backend: json|sqlite")
	fs.StringVar(&f.dataDir, "data-dir", "", "directory holding the todo slot")
	fs.StringVar(&f.slot, "slot", "", "slot name")
	fs.StringVar(&f.theme, "theme", "", "theme: classic|neon|mono")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug|info|warn|error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text|json|logfmt")
}

func (f *flagValues) apply(cfg *Config, fs *flag.FlagSet) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "storage":
			cfg.Storage.Backend = f.backend
		case "data-dir":
			cfg.Storage.Dir = f.dataDir
		case "slot":
			cfg.Storage.Slot = f.slot
		case "theme":
			cfg.UI.Theme = f.theme
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-format":
			cfg.Log.Format = f.logFormat
		}
	})
}
