package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, []int{2025, 2026}, cfg.Calendar.Years)
	assert.Equal(t, 24*time.Hour, cfg.Calendar.CacheTTL)
	assert.Equal(t, "plazos", cfg.Metrics.Namespace)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	t.Run("bad port", func(t *testing.T) {
		c := validConfig()
		c.Server.Port = 70000
		assert.Error(t, c.Validate())
	})

	t.Run("bad mode", func(t *testing.T) {
		c := validConfig()
		c.Server.Mode = "verbose"
		assert.Error(t, c.Validate())
	})

	t.Run("database enabled without host", func(t *testing.T) {
		c := validConfig()
		c.Database.Enabled = true
		assert.Error(t, c.Validate())
		c.Database.Host = "db.internal"
		assert.NoError(t, c.Validate())
	})

	t.Run("kafka enabled without brokers", func(t *testing.T) {
		c := validConfig()
		c.Kafka.Enabled = true
		assert.Error(t, c.Validate())
		c.Kafka.Producer.Brokers = []string{"localhost:9092"}
		assert.NoError(t, c.Validate())
	})

	t.Run("no calendar years", func(t *testing.T) {
		c := validConfig()
		c.Calendar.Years = nil
		assert.Error(t, c.Validate())
	})

	t.Run("year out of range", func(t *testing.T) {
		c := validConfig()
		c.Calendar.Years = []int{25}
		assert.Error(t, c.Validate())
	})
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
  mode: debug
calendar:
  years: [2025]
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, []int{2025}, cfg.Calendar.Years)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still fill the gaps.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  mode: loud\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PLAZOS_SERVER_PORT", "8181")
	t.Setenv("PLAZOS_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}
