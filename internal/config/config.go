// Package config loads the tabprof YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/johndauphine/tabprof/internal/datasource"
	"github.com/johndauphine/tabprof/internal/dbconfig"
	"github.com/johndauphine/tabprof/internal/driver"
	"github.com/johndauphine/tabprof/internal/loader"
	"github.com/johndauphine/tabprof/internal/logging"
	"github.com/johndauphine/tabprof/internal/profile"
)

// Config is the full application configuration.
type Config struct {
	Source  SourceConfig    `yaml:"source"`
	S3      loader.S3Config `yaml:"s3"`
	Profile ProfileConfig   `yaml:"profile"`
	History HistoryConfig   `yaml:"history"`
	Logging LoggingConfig   `yaml:"logging"`
}

// SourceConfig names the table to profile: a file path (or s3:// URI) or
// a database table.
type SourceConfig struct {
	Path     string                `yaml:"path"`
	Format   string                `yaml:"format"`
	Database dbconfig.SourceConfig `yaml:"database"`
}

// ProfileConfig tunes the profiler and feature inference.
type ProfileConfig struct {
	MaxDistinctValues int      `yaml:"max_distinct_values"`
	MediaSampleSize   int      `yaml:"media_sample_size"`
	Workers           int      `yaml:"workers"`
	Targets           []string `yaml:"targets"`
	Exclude           []string `yaml:"exclude"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file. ${VAR} references are expanded from the
// environment after loading a .env file from the working directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config content, then applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	_ = godotenv.Load()

	expanded := os.ExpandEnv(string(data))
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with only defaults applied. Callers set the
// source and call Finalize.
func Default() *Config {
	_ = godotenv.Load()
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Finalize re-applies defaults and validates after fields were overridden
// (for example from command-line flags).
func (c *Config) Finalize() error {
	c.applyDefaults()
	return c.validate()
}

func (c *Config) applyDefaults() {
	db := &c.Source.Database
	if db.IsSet() {
		if d, err := driver.Get(db.Type); err == nil {
			defaults := d.Defaults()
			if db.Port == 0 {
				db.Port = defaults.Port
			}
			if db.Schema == "" {
				db.Schema = defaults.Schema
			}
			if db.SSLMode == "" {
				db.SSLMode = defaults.SSLMode
			}
		}
		if db.Host == "" && db.Type != "sqlite" {
			db.Host = "localhost"
		}
	}

	if c.S3.AccessKey == "" {
		c.S3.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if c.S3.SecretKey == "" {
		c.S3.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	if c.S3.Region == "" {
		c.S3.Region = os.Getenv("AWS_REGION")
	}

	if c.Profile.MaxDistinctValues == 0 {
		c.Profile.MaxDistinctValues = profile.DefaultMaxDistinctValues
	}
	if c.Profile.MediaSampleSize == 0 {
		c.Profile.MediaSampleSize = datasource.DefaultMediaSampleSize
	}
	if c.Profile.Workers == 0 {
		c.Profile.Workers = profile.DefaultWorkers
	}

	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath()
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tabprof-history.db"
	}
	return filepath.Join(home, ".tabprof", "history.db")
}

func (c *Config) validate() error {
	hasPath := strings.TrimSpace(c.Source.Path) != ""
	hasDB := c.Source.Database.IsSet()
	switch {
	case hasPath && hasDB:
		return fmt.Errorf("source: set either path or database, not both")
	case hasDB:
		if err := driver.ValidateIdentifier(c.Source.Database.Table); err != nil {
			return fmt.Errorf("source.database.table: %w", err)
		}
	case hasPath:
		if c.Source.Format != "" {
			if _, err := loader.ParseFormat(c.Source.Format); err != nil {
				return fmt.Errorf("source.format: %w", err)
			}
		}
		if loader.IsS3URI(c.Source.Path) && c.S3.Endpoint == "" {
			return fmt.Errorf("s3.endpoint is required for s3:// sources")
		}
	}

	if c.Profile.MaxDistinctValues < 0 {
		return fmt.Errorf("profile.max_distinct_values must be >= 0")
	}
	if c.Profile.MediaSampleSize < 0 {
		return fmt.Errorf("profile.media_sample_size must be >= 0")
	}
	if c.Profile.Workers < 0 {
		return fmt.Errorf("profile.workers must be >= 0")
	}
	for _, t := range c.Profile.Targets {
		for _, e := range c.Profile.Exclude {
			if t == e {
				return fmt.Errorf("profile: column %q is both a target and excluded", t)
			}
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// HasSource reports whether a file or database source is configured.
func (c *Config) HasSource() bool {
	return strings.TrimSpace(c.Source.Path) != "" || c.Source.Database.IsSet()
}

// SourceName is a display name for the configured source.
func (c *Config) SourceName() string {
	if c.Source.Database.IsSet() {
		db := c.Source.Database
		t := driver.Table{Schema: db.Schema, Name: db.Table}
		if db.Type == "sqlite" {
			return fmt.Sprintf("sqlite:%s/%s", db.Database, t.FullName())
		}
		return fmt.Sprintf("%s://%s:%d/%s/%s", db.Type, db.Host, db.Port, db.Database, t.FullName())
	}
	return c.Source.Path
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Source.Database.Password != "" {
		out.Source.Database.Password = "********"
	}
	if out.S3.SecretKey != "" {
		out.S3.SecretKey = "********"
	}
	return &out
}
