// API server entry point for the plazos deadline service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/legaldefense/plazos/internal/application/deadlines"
	"github.com/legaldefense/plazos/internal/config"
	"github.com/legaldefense/plazos/internal/domain/calendar"
	"github.com/legaldefense/plazos/internal/domain/deadline"
	"github.com/legaldefense/plazos/internal/domain/procedure"
	"github.com/legaldefense/plazos/internal/infrastructure/database/postgres"
	"github.com/legaldefense/plazos/internal/infrastructure/database/postgres/repositories"
	"github.com/legaldefense/plazos/internal/infrastructure/database/redis"
	"github.com/legaldefense/plazos/internal/infrastructure/holidays"
	"github.com/legaldefense/plazos/internal/infrastructure/messaging/kafka"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/legaldefense/plazos/internal/interfaces/http"
	"github.com/legaldefense/plazos/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", logging.Err(err))
		os.Exit(1)
	}
}

// loadConfig reads the file when present, otherwise falls back to environment
// variables so the container image runs without a mounted config.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "no config file at %s, reading environment\n", path)
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx := context.Background()

	logger.Info("starting plazos API server",
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode),
	)

	var collector prometheus.MetricsCollector
	var metrics *prometheus.AppMetrics
	if cfg.Metrics.Enabled {
		var err error
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return err
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	health := handlers.NewHealthHandler(logger)

	// Holiday sources, most authoritative first. The built-in tables close
	// the chain so the calculator always has a calendar to count over.
	var chain []calendar.HolidayProvider
	static := calendar.NewStaticProvider()

	if cfg.Database.Enabled {
		conn, err := postgres.NewConnection(cfg.Database.Config, logger)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := conn.RunMigrations(cfg.Database.MigrationsDir); err != nil {
			return err
		}
		health.Register("postgres", handlers.PingerFunc(conn.HealthCheck))

		var source calendar.HolidayProvider = repositories.NewHolidayRepository(conn, logger)

		if cfg.Redis.Enabled {
			client, err := redis.NewClient(&cfg.Redis.Config, logger)
			if err != nil {
				return err
			}
			defer client.Close()
			health.Register("redis", client)

			cache := redis.NewCache(client, logger)
			source = holidays.NewCachedProvider(source, cache, logger,
				holidays.WithTTL(cfg.Calendar.CacheTTL),
				holidays.WithMetrics(metrics),
			)
		}
		chain = append(chain, source)
	}
	chain = append(chain, static)
	provider := holidays.NewFallbackProvider(logger, chain...)

	cal, err := calendar.Load(ctx, provider, cfg.Calendar.Years, calendar.DefaultNonWorkingMonths)
	if err != nil {
		return err
	}
	if metrics != nil {
		metrics.HolidayYearsLoaded.WithLabelValues("calendar").Set(float64(len(cfg.Calendar.Years)))
	}

	registry := procedure.NewRegistry()
	calculator := deadline.NewCalculator(cal, registry)

	opts := []deadlines.ServiceOption{deadlines.WithMetrics(metrics)}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Producer, logger)
		if err != nil {
			return err
		}
		defer producer.Close()
		opts = append(opts, deadlines.WithAlertPublisher(kafka.NewAlertProducer(producer)))
	}
	svc := deadlines.NewService(calculator, registry, provider, logger, opts...)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		DeadlineHandler:  handlers.NewDeadlineHandler(svc, logger),
		HealthHandler:    health,
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
		Mode:             cfg.Server.Mode,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", logging.String("signal", sig.String()))
	}

	return srv.Stop(context.Background())
}
