package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	NotifyTransportHTTP  = "http"
	NotifyTransportQueue = "queue"
	NotifyTransportNATS  = "nats"
)

type Config struct {
	Env       string          `json:"env"`
	Http      HttpConfig      `json:"http"`
	Postgres  PostgresConfig  `json:"postgres"`
	Redis     RedisConfig     `json:"redis"`
	NATS      NATSConfig      `json:"nats"`
	Notify    NotifyConfig    `json:"notify"`
	Lifecycle LifecycleConfig `json:"lifecycle"`
	Storage   StorageConfig   `json:"storage"`
	Entities  EntitiesConfig  `json:"entities"`
	APIKey    string          `json:"api_key,omitempty"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	RateLimitRPS    float64       `json:"rate_limit_rps"`
	RateLimitBurst  int           `json:"rate_limit_burst"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
	// Enabled switches the occurrence lock and the notification queue to Redis.
	Enabled bool          `json:"enabled"`
	LockTTL time.Duration `json:"lock_ttl"`
}

type NATSConfig struct {
	URL     string `json:"url"`
	Subject string `json:"subject"`
}

type NotifyConfig struct {
	Transport    string        `json:"transport"`
	URL          string        `json:"url"`
	Disabled     bool          `json:"disabled"`
	Timeout      time.Duration `json:"timeout"`
	QueueKey     string        `json:"queue_key"`
	RelayWorkers int           `json:"relay_workers"`
	RelayRetries int           `json:"relay_retries"`
}

type LifecycleConfig struct {
	DedupRadiusMeters   float64       `json:"dedup_radius_meters"`
	ActivationThreshold int           `json:"activation_threshold"`
	ClosureThreshold    int           `json:"closure_threshold"`
	NotifyMinutes       int           `json:"notify_minutes"`
	FeedbackCooldown    time.Duration `json:"feedback_cooldown"`
}

type StorageConfig struct {
	Driver string `json:"driver"`
}

type EntitiesConfig struct {
	SeedFile string `json:"seed_file"`
}

func Load(ctx context.Context) (*Config, error) {

	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimitRPS:    getEnvFloat("HTTP_RATE_LIMIT_RPS", 5),
			RateLimitBurst:  getEnvInt("HTTP_RATE_LIMIT_BURST", 10),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "pg-local"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "ready_to_help"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        20,
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "redis-local:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			LockTTL:  getEnvDuration("REDIS_LOCK_TTL", 5*time.Second),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://nats-local:4222"),
			Subject: getEnv("NATS_SUBJECT", "notifications"),
		},
		Notify: NotifyConfig{
			Transport:    getEnv("NOTIFY_TRANSPORT", NotifyTransportHTTP),
			URL:          getEnv("NOTIFY_URL", "http://notifier-local:8081"),
			Disabled:     getEnvBool("NOTIFY_DISABLED", false),
			Timeout:      getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
			QueueKey:     getEnv("NOTIFY_QUEUE_KEY", "notifications:queue"),
			RelayWorkers: getEnvInt("NOTIFY_RELAY_WORKERS", 2),
			RelayRetries: getEnvInt("NOTIFY_RELAY_RETRIES", 3),
		},
		Lifecycle: LifecycleConfig{
			DedupRadiusMeters:   getEnvFloat("DEDUP_RADIUS_METERS", 50),
			ActivationThreshold: getEnvInt("ACTIVATION_THRESHOLD", 3),
			ClosureThreshold:    getEnvInt("CLOSURE_THRESHOLD", 5),
			NotifyMinutes:       getEnvInt("NOTIFY_MINUTES", 5),
			FeedbackCooldown:    getEnvDuration("FEEDBACK_COOLDOWN", time.Hour),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		},
		Entities: EntitiesConfig{
			SeedFile: getEnv("ENTITIES_SEED_FILE", ""),
		},
		APIKey: getEnv("API_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.Bool("redis_enabled", cfg.Redis.Enabled),
		slog.String("notify_transport", cfg.Notify.Transport),
		slog.Float64("dedup_radius_m", cfg.Lifecycle.DedupRadiusMeters))

	return cfg, nil
}

func (c *Config) Validate() error {

	if c.Http.Port == "" || (len(c.Http.Port) > 0 && c.Http.Port[0] != ':') {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	if c.APIKey == "" {
		return errors.New("API_KEY required")
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Postgres.Host == "" {
			return errors.New("POSTGRES_HOST required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory)
	}

	switch c.Notify.Transport {
	case NotifyTransportHTTP:
	case NotifyTransportQueue:
		if !c.Redis.Enabled {
			return errors.New("NOTIFY_TRANSPORT=queue requires REDIS_ENABLED=true")
		}
	case NotifyTransportNATS:
		if c.NATS.URL == "" {
			return errors.New("NATS_URL required")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_TRANSPORT %q", c.Notify.Transport)
	}

	if !c.Notify.Disabled && c.Notify.Transport != NotifyTransportNATS && c.Notify.URL == "" {
		return errors.New("NOTIFY_URL required")
	}

	if c.Lifecycle.DedupRadiusMeters <= 0 {
		return errors.New("DEDUP_RADIUS_METERS must be positive")
	}
	if c.Lifecycle.ActivationThreshold < 1 || c.Lifecycle.ClosureThreshold < 1 {
		return errors.New("lifecycle thresholds must be at least 1")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
