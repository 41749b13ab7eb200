// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/artpar/primitives/core/discovery"
	"github.com/artpar/primitives/core/registry"
	"github.com/artpar/primitives/core/transform"
)

// Database drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PRIMITIVES_"

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Database  DatabaseConfig  `yaml:"database"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	OpenAPI   OpenAPIConfig   `yaml:"openapi"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// DatabaseConfig selects the store adapter.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "memory" or "sqlite"
	DSN    string `yaml:"dsn"`
}

// DiscoveryConfig configures the primitive module scan.
type DiscoveryConfig struct {
	Policy         string   `yaml:"policy"`          // "fail_fast" or "skip_missing"
	Roots          []string `yaml:"roots"`           // empty scans every registered module
	SystemPrefixes []string `yaml:"system_prefixes"` // empty keeps the scanner defaults
}

// OpenAPIConfig configures the generated API documentation.
type OpenAPIConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Transformer string `yaml:"transformer"` // "fragments" or "underlying"
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{
		OpenAPI: OpenAPIConfig{Enabled: true},
		Metrics: MetricsConfig{Enabled: true},
	}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file. Environment variables in the
// file are expanded, and PRIMITIVES_* variables override file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv creates configuration from defaults and environment variables.
//
// Environment variables:
//
//	PRIMITIVES_SERVER_HOST           - Server host (default: 0.0.0.0)
//	PRIMITIVES_SERVER_PORT           - Server port (default: 8080)
//	PRIMITIVES_DATABASE_DRIVER       - memory or sqlite (default: memory)
//	PRIMITIVES_DATABASE_DSN          - SQLite path (default: primitives.db)
//	PRIMITIVES_DISCOVERY_POLICY      - fail_fast or skip_missing (default: fail_fast)
//	PRIMITIVES_DISCOVERY_ROOTS       - Comma-separated root modules
//	PRIMITIVES_OPENAPI_ENABLED       - Serve API documentation (default: true)
//	PRIMITIVES_OPENAPI_TRANSFORMER   - fragments or underlying (default: fragments)
//	PRIMITIVES_METRICS_ENABLED       - Serve /metrics (default: true)
//	PRIMITIVES_LOG_LEVEL             - debug, info, warn, error (default: info)
//	PRIMITIVES_LOG_FORMAT            - json or console (default: json)
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadWithFallback loads path when it exists and falls back to the environment.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

func env(name string) string {
	return os.Getenv(EnvPrefix + name)
}

// applyEnvOverrides applies PRIMITIVES_* variables. Unparsable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := env("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := env("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := env("SERVER_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}

	if v := env("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := env("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}

	if v := env("DISCOVERY_POLICY"); v != "" {
		cfg.Discovery.Policy = v
	}
	if v := env("DISCOVERY_ROOTS"); v != "" {
		cfg.Discovery.Roots = splitList(v)
	}

	if v := env("OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
	if v := env("OPENAPI_TRANSFORMER"); v != "" {
		cfg.OpenAPI.Transformer = v
	}

	if v := env("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := env("METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	if v := env("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverMemory
	}
	if cfg.Database.Driver == DriverSQLite && cfg.Database.DSN == "" {
		cfg.Database.DSN = "primitives.db"
	}

	if cfg.Discovery.Policy == "" {
		cfg.Discovery.Policy = discovery.FailFast.String()
	}

	if cfg.OpenAPI.Transformer == "" {
		cfg.OpenAPI.Transformer = transform.NameFragments
	}
	if cfg.OpenAPI.Title == "" {
		cfg.OpenAPI.Title = "Bank API"
	}
	if cfg.OpenAPI.Version == "" {
		cfg.OpenAPI.Version = "1.0.0"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format))
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required when database.driver is 'sqlite'"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver must be 'memory' or 'sqlite', got %q", c.Database.Driver))
	}

	if _, err := discovery.ParsePolicy(c.Discovery.Policy); err != nil {
		errs = append(errs, fmt.Errorf("discovery.policy: %w", err))
	}

	if _, err := transform.New(c.OpenAPI.Transformer, registry.Empty()); err != nil {
		errs = append(errs, fmt.Errorf("openapi.transformer: %w", err))
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path))
	}

	return errors.Join(errs...)
}

// DiscoveryPolicy returns the parsed scan policy. Validate has checked it.
func (c *Config) DiscoveryPolicy() discovery.Policy {
	p, _ := discovery.ParsePolicy(c.Discovery.Policy)
	return p
}
