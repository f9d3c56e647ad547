// Package config loads resourcewatch configuration from an optional YAML file
// with RW_* environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lexandro/resourcewatch/ignore"
	"github.com/lexandro/resourcewatch/search"
	"github.com/lexandro/resourcewatch/watcher"
)

// Config is the top-level configuration.
type Config struct {
	Root           string        `yaml:"root"`
	MetadataFolder string        `yaml:"metadataFolder"`
	Excludes       []string      `yaml:"excludes"`
	Gitignore      bool          `yaml:"gitignore"`
	Debounce       time.Duration `yaml:"debounce"`
	RescanInterval time.Duration `yaml:"rescanInterval"` // 0 disables periodic rescans
	Search         SearchConfig  `yaml:"search"`
	Logging        LoggingConfig `yaml:"logging"`
	Metrics        MetricsConfig `yaml:"metrics"`
}

// SearchConfig controls find-in-files limits.
type SearchConfig struct {
	MaxFileSize int64 `yaml:"maxFileSize"`
	MaxResults  int   `yaml:"maxResults"`
}

// LoggingConfig controls the log level and destination. An empty File logs to stderr.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		MetadataFolder: ignore.DefaultMetadataFolder,
		Gitignore:      true,
		Debounce:       watcher.DefaultDebounceInterval,
		Search: SearchConfig{
			MaxFileSize: search.DefaultMaxFileSize,
			MaxResults:  search.DefaultMaxResults,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	if c.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %s", c.Debounce))
	}
	if c.RescanInterval < 0 {
		errs = append(errs, fmt.Errorf("rescanInterval must not be negative, got %s", c.RescanInterval))
	}
	if c.Search.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("search.maxFileSize must be positive, got %d", c.Search.MaxFileSize))
	}
	if c.Search.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("search.maxResults must be positive, got %d", c.Search.MaxResults))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// applyEnvOverrides reads RW_* environment variables and overrides the
// corresponding config fields. Unparseable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RW_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("RW_METADATA_FOLDER"); v != "" {
		cfg.MetadataFolder = v
	}
	if v := os.Getenv("RW_EXCLUDES"); v != "" {
		cfg.Excludes = strings.Split(v, ",")
	}
	if v := os.Getenv("RW_GITIGNORE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Gitignore = b
		}
	}
	if v := os.Getenv("RW_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Debounce = d
		}
	}
	if v := os.Getenv("RW_RESCAN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RescanInterval = d
		}
	}
	if v := os.Getenv("RW_SEARCH_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Search.MaxFileSize = n
		}
	}
	if v := os.Getenv("RW_SEARCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = n
		}
	}
	if v := os.Getenv("RW_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RW_LOGGING_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("RW_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}
