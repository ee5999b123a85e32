package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
routes:
  - method: GET
    path: /healthz
    body: ok
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)

	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, 200, cfg.Routes[0].Status)
}

func TestLoad_FullConfig(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
listen: ":9090"
log:
  level: debug
  format: console
rateLimit:
  enabled: true
  rps: 50
  burst: 100
  perClient: true
cache:
  enabled: true
  backend: redis
  ttl: 30s
  redis:
    addr: localhost:6379
    keyPrefix: "edge:"
routes:
  - method: GET
    path: /items/:id
    status: 200
    body: item
    headers:
      X-Service: edge
  - method: "*"
    path: /assets
    prefix: true
    status: 204
`)

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.RateLimit.PerClient)
	assert.Equal(t, 50, cfg.RateLimit.RPS)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "edge:", cfg.Cache.Redis.KeyPrefix)

	require.Len(t, cfg.Routes, 2)
	assert.Equal(t, "edge", cfg.Routes[0].Headers["X-Service"])
	assert.True(t, cfg.Routes[1].Prefix)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		_, err := Load("")
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "path", cfgErr.Field)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfigFile(t, "listen: [unclosed"))
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "empty listen",
			mutate:  func(c *Config) { c.Listen = "" },
			wantErr: "listen",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Cache.Backend = "memcached" },
			wantErr: "cache.backend",
		},
		{
			name: "redis backend without addr",
			mutate: func(c *Config) {
				c.Cache.Enabled = true
				c.Cache.Backend = "redis"
			},
			wantErr: "cache.redis.addr",
		},
		{
			name: "rate limit without rps",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.RPS = 0
			},
			wantErr: "rateLimit.rps",
		},
		{
			name: "route without path",
			mutate: func(c *Config) {
				c.Routes = []RouteConfig{{Method: "GET", Status: 200}}
			},
			wantErr: "routes[0].path",
		},
		{
			name: "route without method",
			mutate: func(c *Config) {
				c.Routes = []RouteConfig{{Path: "/x", Status: 200}}
			},
			wantErr: "routes[0].method",
		},
		{
			name: "route with bad status",
			mutate: func(c *Config) {
				c.Routes = []RouteConfig{{Method: "GET", Path: "/x", Status: 99}}
			},
			wantErr: "routes[0].status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantErr, cfgErr.Field)
		})
	}
}
