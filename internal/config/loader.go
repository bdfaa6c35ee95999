package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "PLAZOS"

// newViper builds a Viper instance with the standard settings: YAML files,
// PLAZOS_ env prefix and a key replacer that maps "." to "_" so nested keys
// like "database.host" resolve to "PLAZOS_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at configPath, merges PLAZOS_* environment
// overrides, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from PLAZOS_* environment variables,
// with no config file required.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	bindKeys(v)
	return unmarshalAndFinalize(v)
}

// bindKeys registers every configuration key with viper. AutomaticEnv only
// resolves keys viper already knows about, so without a config file the keys
// must be declared before Unmarshal.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.read_timeout",
		"server.write_timeout", "server.shutdown_timeout",
		"database.enabled", "database.host", "database.port",
		"database.database", "database.username", "database.password",
		"database.ssl_mode", "database.migrations_dir",
		"redis.enabled", "redis.addr", "redis.username", "redis.password",
		"redis.db", "redis.pool_size",
		"kafka.enabled", "kafka.brokers", "kafka.acks",
		"calendar.years", "calendar.cache_ttl",
		"metrics.enabled", "metrics.namespace",
		"log.level", "log.format",
	} {
		_ = v.BindEnv(key)
	}
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch monitors configPath and invokes onChange with each newly parsed
// Config. A change that fails to parse or validate is skipped so the
// application never observes a broken configuration. Watch is non-blocking.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad panics on any load error, for use in main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
