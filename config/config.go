// Package config loads and validates the edge router configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kidylee/cloudworker-router/observability"
)

// Default server settings.
const (
	DefaultListen   = ":8080"
	DefaultCacheTTL = 60 * time.Second
)

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("config: invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Reason)
}

// RouteConfig declares one static route served by the router.
type RouteConfig struct {
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Status  int               `yaml:"status"`
	Body    string            `yaml:"body"`
	Headers map[string]string `yaml:"headers"`
	Prefix  bool              `yaml:"prefix"`
}

// RateLimitConfig controls the request rate limiter.
type RateLimitConfig struct {
	Enabled   bool `yaml:"enabled"`
	RPS       int  `yaml:"rps"`
	Burst     int  `yaml:"burst"`
	PerClient bool `yaml:"perClient"`
}

// RedisConfig holds connection settings for the redis cache backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// Config is the root configuration for the edge router.
type Config struct {
	Listen    string                  `yaml:"listen"`
	Log       observability.LogConfig `yaml:"log"`
	RateLimit RateLimitConfig         `yaml:"rateLimit"`
	Cache     CacheConfig             `yaml:"cache"`
	Routes    []RouteConfig           `yaml:"routes"`
}

// DefaultConfig returns a configuration with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Listen: DefaultListen,
		Log:    observability.DefaultLogConfig(),
		RateLimit: RateLimitConfig{
			RPS:   100,
			Burst: 200,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     DefaultCacheTTL,
		},
	}
}

// Load reads a YAML configuration file and applies defaults for
// omitted fields.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, &ConfigError{Field: "path", Reason: "empty"}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Log.Level == "" {
		c.Log.Level = observability.DefaultLogConfig().Level
	}
	if c.Log.Format == "" {
		c.Log.Format = observability.DefaultLogConfig().Format
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	for i := range c.Routes {
		if c.Routes[i].Status == 0 {
			c.Routes[i].Status = 200
		}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return &ConfigError{Field: "listen", Reason: "empty"}
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Enabled && c.Cache.Redis.Addr == "" {
			return &ConfigError{Field: "cache.redis.addr", Reason: "required for redis backend"}
		}
	default:
		return &ConfigError{Field: "cache.backend", Value: c.Cache.Backend, Reason: "must be memory or redis"}
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return &ConfigError{Field: "rateLimit.rps", Value: fmt.Sprint(c.RateLimit.RPS), Reason: "must be positive"}
		}
		if c.RateLimit.Burst <= 0 {
			return &ConfigError{Field: "rateLimit.burst", Value: fmt.Sprint(c.RateLimit.Burst), Reason: "must be positive"}
		}
	}

	for i, rt := range c.Routes {
		if rt.Path == "" {
			return &ConfigError{Field: fmt.Sprintf("routes[%d].path", i), Reason: "empty"}
		}
		if rt.Method == "" {
			return &ConfigError{Field: fmt.Sprintf("routes[%d].method", i), Reason: "empty"}
		}
		if rt.Status < 100 || rt.Status > 599 {
			return &ConfigError{
				Field:  fmt.Sprintf("routes[%d].status", i),
				Value:  fmt.Sprint(rt.Status),
				Reason: "must be a valid HTTP status",
			}
		}
	}

	return nil
}

// LoadAndValidate loads a configuration file and validates it.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
