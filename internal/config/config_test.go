package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "codementor_session", cfg.JWT.CookieName)
	assert.Equal(t, ResourcePolicyAppend, cfg.Guidance.ResourcePolicy)
	assert.Equal(t, 2*time.Minute, cfg.Guidance.LockTTL())
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout())
	assert.Equal(t, "logs/app.log", cfg.Log.File)
	assert.Empty(t, cfg.Log.Level)
	assert.Equal(t, 50, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Redis.PingTimeout())
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
database:
  driver: sqlite
  path: `+filepath.Join(t.TempDir(), "nested", "app.db")+`
jwt:
  secret: file-secret
  expire_hours: 2
ai:
  provider: openai
guidance:
  resource_policy: replace
cors:
  allowed_origins:
    - http://localhost:5173
`)
	t.Setenv("AI_PROVIDER", "mock")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "mock", cfg.AI.Provider)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, ResourcePolicyReplace, cfg.Guidance.ResourcePolicy)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)

	// sqlite 目录会被自动创建
	_, err = os.Stat(filepath.Dir(cfg.Database.Path))
	assert.NoError(t, err)
}

func TestLoadConfig_RejectsInvalidFile(t *testing.T) {
	dir := writeConfig(t, `
guidance:
  resource_policy: merge
`)
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "resource_policy")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "debug"},
			Database: DatabaseConfig{Driver: "sqlite"},
			JWT:      JWTConfig{Secret: "short"},
			AI:       AIConfig{Provider: "openai"},
			Guidance: GuidanceConfig{ResourcePolicy: ResourcePolicyAppend},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid debug config", func(c *Config) {}, ""},
		{"short secret in release", func(c *Config) { c.Server.Mode = "release" }, "JWT secret is too short"},
		{"long secret in release", func(c *Config) {
			c.Server.Mode = "release"
			c.JWT.Secret = "0123456789abcdef0123456789abcdef"
		}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, "unknown database driver"},
		{"unknown policy", func(c *Config) { c.Guidance.ResourcePolicy = "merge" }, "unknown guidance.resource_policy"},
		{"unknown provider", func(c *Config) { c.AI.Provider = "cohere" }, "unknown ai.provider"},
		{"provider disabled", func(c *Config) { c.AI.Provider = "none" }, ""},
		{"explicit log level", func(c *Config) { c.Log.Level = "warn" }, ""},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, "unknown log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
