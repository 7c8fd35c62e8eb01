package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
password = "secret"
dbname = "courts"

[redis]
enabled = true
addr = "redis:6379"

[lifecycle]
sweep_interval_seconds = 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout, "unset keys keep defaults")
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "courtbook", cfg.Redis.KeyPrefix)
	assert.Equal(t, time.Minute, cfg.Lifecycle.SweepInterval())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
password = "from-file"
`)
	t.Setenv("COURTBOOK_DATABASE_PASSWORD", "from-env")
	t.Setenv("COURTBOOK_REDIS_KEY_PREFIX", "staging")
	t.Setenv("COURTBOOK_METRICS_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "staging", cfg.Redis.KeyPrefix)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, `[server`))
	assert.ErrorIs(t, err, ErrLoad)

	_, err = Load(writeConfig(t, "[logs]\nlevel = \"verbose\"\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	t.Setenv("COURTBOOK_SERVER_HTTP_PORT", "not-a-port")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrLoad)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"no db host", func(c *Config) { c.Database.Host = "" }},
		{"idle over open", func(c *Config) { c.Database.MaxIdleConns = 100 }},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }},
		{"user service without url", func(c *Config) { c.UserService.Enabled = true }},
		{"negative sweep", func(c *Config) { c.Lifecycle.SweepIntervalSeconds = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "p@ss word", DBName: "courts", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5433/courts?sslmode=disable", d.DSN())
}
