package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"readyToHelp/internal/api"
	"readyToHelp/internal/api/handlers/http/system"
	"readyToHelp/internal/config"
	"readyToHelp/internal/jurisdiction"
	"readyToHelp/internal/notify"
	"readyToHelp/internal/redis"
	"readyToHelp/internal/service"
	"readyToHelp/internal/storage/memory"
	"readyToHelp/internal/storage/postgres"
	"readyToHelp/internal/workers"
	"readyToHelp/pkg/logger"

	"github.com/nats-io/nats.go"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	NATS       *nats.Conn
	Dispatcher *notify.Dispatcher
	// Relay is set only for the queue transport.
	Relay *workers.NotificationRelay
}

type repositories struct {
	reports     service.ReportRepository
	occurrences service.OccurrenceRepository
	feedback    service.FeedbackRepository
	entities    service.EntityRepository
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *Components, err error) {
	c := &Components{logger: logger}
	defer func() {
		if err != nil {
			c.ShutdownAll(context.Background())
		}
	}()

	repos, err := c.initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var locker service.Locker
	if cfg.Redis.Enabled {
		logger.Info("Initializing Redis")
		c.Redis, err = redis.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		locker = redis.NewOccurrenceLock(c.Redis.Client, cfg.Redis.LockTTL, logger)
	}

	channel, err := c.initChannel(cfg)
	if err != nil {
		return nil, err
	}
	c.Dispatcher = notify.NewDispatcher(channel, logger)

	if cfg.Entities.SeedFile != "" {
		n, err := jurisdiction.NewLoader(repos.entities, logger).LoadFile(ctx, cfg.Entities.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to seed jurisdictions: %w", err)
		}
		logger.Info("Seeded responsible entities", slog.Int("count", n))
	}

	lifecycle := service.NewLifecycleManager(service.LifecycleDeps{
		Reports:     repos.reports,
		Occurrences: repos.occurrences,
		Feedback:    repos.feedback,
		Entities:    repos.entities,
		Notifier:    c.Dispatcher,
		Locker:      locker,
	}, service.LifecycleConfig{
		DedupRadiusMeters:   cfg.Lifecycle.DedupRadiusMeters,
		ActivationThreshold: cfg.Lifecycle.ActivationThreshold,
		ClosureThreshold:    cfg.Lifecycle.ClosureThreshold,
		NotifyMinutes:       cfg.Lifecycle.NotifyMinutes,
		FeedbackCooldown:    cfg.Lifecycle.FeedbackCooldown,
	}, logger)

	incidents := service.NewIncidentService(lifecycle, repos.occurrences, logger)
	srv := service.NewService(incidents, incidents, incidents)

	c.HttpServer = api.NewServer(cfg, logger, srv, c.healthChecks())
	logger.Info("Initialized server")

	return c, nil
}

func (c *Components) initStorage(ctx context.Context, cfg *config.Config) (repositories, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		c.logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			reports:     store.Reports(),
			occurrences: store.Occurrences(),
			feedback:    store.Feedback(),
			entities:    store.Entities(),
		}, nil
	}

	c.logger.Info("Initializing Postgres")
	pg, err := postgres.NewPostgres(ctx, cfg.Postgres, c.logger)
	if err != nil {
		c.logger.Error("Failed to init postgres", slog.Any("error", err))
		return repositories{}, fmt.Errorf("failed to init postgres: %w", err)
	}
	c.Postgres = pg
	return repositories{
		reports:     pg.Reports(),
		occurrences: pg.Occurrences(),
		feedback:    pg.Feedback(),
		entities:    pg.Entities(),
	}, nil
}

func (c *Components) initChannel(cfg *config.Config) (notify.Channel, error) {
	if cfg.Notify.Disabled {
		c.logger.Warn("Notifications disabled, alerts are only logged")
		return notify.NewLogChannel(c.logger), nil
	}

	switch cfg.Notify.Transport {
	case config.NotifyTransportQueue:
		queue := redis.NewNotificationQueue(c.Redis.Client, cfg.Notify.QueueKey)
		sink := notify.NewHTTPChannel(cfg.Notify.URL, cfg.Notify.Timeout, c.logger)
		c.Relay = workers.NewNotificationRelay(queue, sink, c.logger, cfg.Notify.RelayWorkers, cfg.Notify.RelayRetries)
		return queue, nil
	case config.NotifyTransportNATS:
		conn, err := notify.ConnectNATS(cfg.NATS.URL, "readyToHelp", c.logger)
		if err != nil {
			return nil, err
		}
		c.NATS = conn
		return notify.NewNATSChannel(conn, cfg.NATS.Subject), nil
	default:
		return notify.NewHTTPChannel(cfg.Notify.URL, cfg.Notify.Timeout, c.logger), nil
	}
}

func (c *Components) healthChecks() map[string]system.Check {
	checks := make(map[string]system.Check)
	if c.Postgres != nil {
		checks["postgres"] = func(ctx context.Context) error { return c.Postgres.Pool.Ping(ctx) }
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.Redis.Client.Ping(ctx).Err() }
	}
	if c.NATS != nil {
		checks["nats"] = func(context.Context) error {
			if !c.NATS.IsConnected() {
				return nats.ErrConnectionClosed
			}
			return nil
		}
	}
	return checks
}

// RunWorkers blocks until ctx is cancelled. It returns at once when no
// background worker is configured.
func (c *Components) RunWorkers(ctx context.Context) {
	if c.Relay == nil {
		return
	}
	c.logger.Info("Starting notification relay")
	c.Relay.Run(ctx)
	c.logger.Info("Notification relay stopped")
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll(ctx context.Context) {
	start := time.Now()
	c.logger.Info("Component shutdown started")

	if c.Dispatcher != nil {
		if err := c.Dispatcher.Close(ctx); err != nil {
			c.logger.Warn("Notification tasks did not finish in time", slog.Any("error", err))
		}
	}
	if c.NATS != nil {
		if err := c.NATS.Drain(); err != nil {
			c.logger.Error("NATS drain failed", slog.Any("error", err))
			c.NATS.Close()
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}
	if c.Postgres != nil {
		c.Postgres.Close()
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
