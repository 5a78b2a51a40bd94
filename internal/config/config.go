// Package config loads the YAML configuration shared by the rectify CLI and
// the HTTP server, with environment overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvPostgresDSN   = "RECTIFY_POSTGRES_DSN"
	EnvClickHouseDSN = "RECTIFY_CLICKHOUSE_DSN"
	EnvNATSURL       = "RECTIFY_NATS_URL"
	EnvHTTPAddr      = "RECTIFY_HTTP_ADDR"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
)

type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	NATS    NATSConfig    `yaml:"nats"`
	Log     LogConfig     `yaml:"log"`
}

type SearchConfig struct {
	Step           time.Duration `yaml:"step"`
	Tolerance      *float64      `yaml:"tolerance"`
	Strict         bool          `yaml:"strict"`
	RefineCap      int           `yaml:"refine_cap"`
	NearMissMargin float64       `yaml:"near_miss_margin"`
	CacheBucket    time.Duration `yaml:"cache_bucket"`
	CacheSize      int           `yaml:"cache_size"`
	Workers        int           `yaml:"workers"`
	MaxRejections  int           `yaml:"max_rejections"`
}

type StorageConfig struct {
	Backend       string `yaml:"backend"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickHouseDSN string `yaml:"clickhouse_dsn"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type NATSConfig struct {
	URL            string        `yaml:"url"`
	Subject        string        `yaml:"subject"`
	MaxReconnects  int           `yaml:"max_reconnects"`
	ReconnectWait  time.Duration `yaml:"reconnect_wait"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads path, applies environment overrides and defaults, and validates.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDotEnv loads a .env file into the process environment. A missing file
// is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv(EnvClickHouseDSN); v != "" {
		c.Storage.ClickHouseDSN = v
	}
	if v := os.Getenv(EnvNATSURL); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) applyDefaults() {
	if c.Search.Step == 0 {
		c.Search.Step = 2 * time.Minute
	}
	if c.Search.Tolerance == nil {
		tol := 2.0
		c.Search.Tolerance = &tol
	}
	if c.Search.RefineCap == 0 {
		c.Search.RefineCap = 150
	}
	if c.Search.NearMissMargin == 0 {
		c.Search.NearMissMargin = 10
	}
	if c.Search.CacheBucket == 0 {
		c.Search.CacheBucket = 15 * time.Minute
	}
	if c.Search.CacheSize == 0 {
		c.Search.CacheSize = 4096
	}
	if c.Search.MaxRejections == 0 {
		c.Search.MaxRejections = 500
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendMemory
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.NATS.Subject == "" {
		c.NATS.Subject = "rectification.completed"
	}
	if c.NATS.MaxReconnects == 0 {
		c.NATS.MaxReconnects = 10
	}
	if c.NATS.ReconnectWait == 0 {
		c.NATS.ReconnectWait = 2 * time.Second
	}
	if c.NATS.ConnectTimeout == 0 {
		c.NATS.ConnectTimeout = 5 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Search.Step < 0 {
		return fmt.Errorf("search.step must be positive")
	}
	if *c.Search.Tolerance < 0 {
		return fmt.Errorf("search.tolerance must not be negative")
	}
	if c.Search.CacheBucket < time.Minute {
		return fmt.Errorf("search.cache_bucket must be at least 1m")
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers must not be negative")
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQL:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the sql backend")
		}
	default:
		return fmt.Errorf("storage.backend %q must be memory or sql", c.Storage.Backend)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
