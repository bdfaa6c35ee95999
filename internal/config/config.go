// Package config defines the service configuration. No I/O or parsing logic
// lives here, only plain data types, defaults and validation.
package config

import (
	"fmt"
	"time"

	"github.com/legaldefense/plazos/internal/infrastructure/database/postgres"
	"github.com/legaldefense/plazos/internal/infrastructure/database/redis"
	"github.com/legaldefense/plazos/internal/infrastructure/messaging/kafka"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// KafkaConfig wraps the producer settings with an enable switch; the service
// runs fine without a broker.
type KafkaConfig struct {
	Enabled  bool                 `mapstructure:"enabled"`
	Producer kafka.ProducerConfig `mapstructure:",squash"`
}

// DatabaseConfig wraps the postgres settings with an enable switch. With the
// database disabled the built-in holiday tables serve alone.
type DatabaseConfig struct {
	Enabled bool `mapstructure:"enabled"`
	postgres.Config `mapstructure:",squash"`
}

// RedisConfig wraps the redis settings with an enable switch.
type RedisConfig struct {
	Enabled bool `mapstructure:"enabled"`
	redis.Config `mapstructure:",squash"`
}

// CalendarConfig controls which years the working calendar loads.
type CalendarConfig struct {
	Years    []int         `mapstructure:"years"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      logging.Config `mapstructure:"log"`
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode)
	}
	if c.Database.Enabled && c.Database.Host == "" {
		return fmt.Errorf("database.host is required when database is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Producer.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if len(c.Calendar.Years) == 0 {
		return fmt.Errorf("calendar.years must list at least one year")
	}
	for _, y := range c.Calendar.Years {
		if y < 1900 || y > 2200 {
			return fmt.Errorf("calendar.years entry %d out of range", y)
		}
	}
	return nil
}
