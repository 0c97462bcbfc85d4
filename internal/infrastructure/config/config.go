// Package config loads gallery configuration. Values come from Default,
// then an optional YAML or TOML file, then GALLERY_* environment
// variables, each layer overriding the previous one. Variable names
// follow the struct path, e.g. GALLERY_SERVER_PORT or
// GALLERY_RATE_LIMIT_REQUESTS_PER_SECOND.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GALLERY"

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Storage   StorageConfig   `yaml:"storage" toml:"storage"`
	Catalog   CatalogConfig   `yaml:"catalog" toml:"catalog"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit" split_words:"true"`
	CORS      CORSConfig      `yaml:"cors" toml:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string   `yaml:"port" toml:"port"`
	Host            string   `yaml:"host" toml:"host"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" split_words:"true"`
	Compress        bool     `yaml:"compress" toml:"compress"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	Path   string `yaml:"path" toml:"path"`
}

// CatalogConfig configures the remote catalog client. Zero timeout and
// zero retries mean a single unbounded attempt.
type CatalogConfig struct {
	URL       string   `yaml:"url" toml:"url"`
	Timeout   Duration `yaml:"timeout" toml:"timeout"`
	Retries   int      `yaml:"retries" toml:"retries"`
	RateLimit float64  `yaml:"rate_limit" toml:"rate_limit" split_words:"true"`
	UserAgent string   `yaml:"user_agent" toml:"user_agent" split_words:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `yaml:"level" toml:"level"`
	Development bool   `yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `yaml:"rps" toml:"rps" split_words:"true"`
	Burst             int  `yaml:"burst" toml:"burst"`
	Enabled           bool `yaml:"enabled" toml:"enabled"`
}

// CORSConfig lists the origins allowed to call the JSON API.
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins" toml:"allow_origins" split_words:"true"`
}

// Duration is a time.Duration that decodes from strings like "5s" in
// every configuration source.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load builds configuration from defaults, the optional file at path and
// the environment. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file type: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Catalog.Retries < 0 {
		return fmt.Errorf("catalog retries must be >= 0")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: Duration(10 * time.Second),
			Compress:        true,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join("data", "gallery.db"),
		},
		Catalog: CatalogConfig{
			URL:       "https://fakestoreapi.com/products",
			UserAgent: "product-gallery/1.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}
