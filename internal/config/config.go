package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Data    DataConfig    `mapstructure:"data"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig describes the remote archive and which datasets to fetch
type SourceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Prefix  string `mapstructure:"prefix"`
	Years   []int  `mapstructure:"years"`
	Months  []int  `mapstructure:"months"` // empty = all twelve months
}

// FetchConfig contains transfer settings
type FetchConfig struct {
	Workers      int    `mapstructure:"workers"`
	Timeout      string `mapstructure:"timeout"`
	RequestSpace string `mapstructure:"request_space"` // minimum gap between transfer starts
	RemoteList   bool   `mapstructure:"remote_list"`
}

// DataConfig contains local data directory settings
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// CatalogConfig contains catalog database settings
type CatalogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // empty = <data.dir>/catalog.db
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from the given file path. An empty path loads
// the built-in defaults, which reproduce the original fetch scripts.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("source.base_url", "ftp://rsd.gsfc.nasa.gov/pub/1dd-v1.1")
	v.SetDefault("source.prefix", "gpcp_1dd_v1.1_p1d.")
	v.SetDefault("source.years", []int{2002, 2003, 2004, 2005, 2006})
	v.SetDefault("source.months", []int{})
	v.SetDefault("fetch.workers", 1)
	v.SetDefault("fetch.timeout", "5m")
	v.SetDefault("fetch.request_space", "0s")
	v.SetDefault("fetch.remote_list", false)
	v.SetDefault("data.dir", ".")
	v.SetDefault("catalog.enabled", true)
	v.SetDefault("catalog.path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.Source.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid source.base_url: %w", err)
	}
	switch u.Scheme {
	case "ftp", "http", "https":
		// Supported schemes
	default:
		return fmt.Errorf("unsupported source.base_url scheme: %q", u.Scheme)
	}

	if c.Source.Prefix == "" {
		return fmt.Errorf("source.prefix is required")
	}
	if len(c.Source.Years) == 0 {
		return fmt.Errorf("source.years must list at least one year")
	}
	for _, m := range c.Source.Months {
		if m < 1 || m > 12 {
			return fmt.Errorf("source.months entry %d out of range", m)
		}
	}

	if c.Fetch.Workers < 1 || c.Fetch.Workers > 10 {
		return fmt.Errorf("fetch.workers must be between 1 and 10")
	}
	if _, err := time.ParseDuration(c.Fetch.Timeout); err != nil {
		return fmt.Errorf("invalid fetch.timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Fetch.RequestSpace); err != nil {
		return fmt.Errorf("invalid fetch.request_space: %w", err)
	}

	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetTimeout returns the transfer timeout as time.Duration
func (c *FetchConfig) GetTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	if d == 0 {
		return 5 * time.Minute
	}
	return d
}

// GetRequestSpace returns the minimum gap between transfer starts
func (c *FetchConfig) GetRequestSpace() time.Duration {
	d, _ := time.ParseDuration(c.RequestSpace)
	return d
}

// CatalogPath returns the catalog database path, defaulting into the data
// directory when unset.
func (c *Config) CatalogPath() string {
	if c.Catalog.Path != "" {
		return c.Catalog.Path
	}
	return filepath.Join(c.Data.Dir, "catalog.db")
}
