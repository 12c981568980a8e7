package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Event store engines selectable with RENTAL_EVENTSTORE.
const (
	EventStoreMemory = "memory"
	EventStorePGX    = "pgx"
	EventStoreSQL    = "sql"
	EventStoreSQLX   = "sqlx"
)

var (
	// ErrInvalidConfig is returned when an environment variable holds an unusable value.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrMissingPostgresDSN is returned when a Postgres engine is selected without a DSN.
	ErrMissingPostgresDSN = errors.New("RENTAL_POSTGRES_DSN is required for the postgres event store engines")
)

// App is the runtime configuration of rentald.
type App struct {
	HTTPAddr       string
	LogLevel       slog.Level
	EventStore     string
	PostgresDSN    string
	ReplicaDSN     string
	EventsTable    string
	RedisURL       string
	NotifyQueue    string
	SweepInterval  time.Duration
	CheckoutPerMin int
	SeedCSV        string
	SeedTenant     string
}

// Load reads the configuration from the environment, falling back to defaults for unset variables.
func Load() (App, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (App, error) {
	cfg := App{
		HTTPAddr:    getenvOr(getenv, "RENTAL_HTTP_ADDR", ":8080"),
		EventStore:  strings.ToLower(getenvOr(getenv, "RENTAL_EVENTSTORE", EventStoreMemory)),
		PostgresDSN: getenv("RENTAL_POSTGRES_DSN"),
		ReplicaDSN:  getenv("RENTAL_POSTGRES_REPLICA_DSN"),
		EventsTable: getenvOr(getenv, "RENTAL_EVENTS_TABLE", "events"),
		RedisURL:    getenv("RENTAL_REDIS_URL"),
		NotifyQueue: getenvOr(getenv, "RENTAL_NOTIFY_QUEUE", "rental:notifications"),
		SeedCSV:     getenv("RENTAL_SEED_CSV"),
		SeedTenant:  getenvOr(getenv, "RENTAL_SEED_TENANT", "main-library"),
	}

	var errs []error

	if err := cfg.LogLevel.UnmarshalText([]byte(getenvOr(getenv, "RENTAL_LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("%w: RENTAL_LOG_LEVEL: %w", ErrInvalidConfig, err))
	}

	interval, err := time.ParseDuration(getenvOr(getenv, "RENTAL_SWEEP_INTERVAL", "1m"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("%w: RENTAL_SWEEP_INTERVAL: %w", ErrInvalidConfig, err))
	case interval <= 0:
		errs = append(errs, fmt.Errorf("%w: RENTAL_SWEEP_INTERVAL must be positive", ErrInvalidConfig))
	default:
		cfg.SweepInterval = interval
	}

	perMin, err := strconv.Atoi(getenvOr(getenv, "RENTAL_RATE_LIMIT", "30"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("%w: RENTAL_RATE_LIMIT: %w", ErrInvalidConfig, err))
	case perMin < 0:
		errs = append(errs, fmt.Errorf("%w: RENTAL_RATE_LIMIT must not be negative", ErrInvalidConfig))
	default:
		cfg.CheckoutPerMin = perMin
	}

	switch cfg.EventStore {
	case EventStoreMemory:
	case EventStorePGX, EventStoreSQL, EventStoreSQLX:
		if cfg.PostgresDSN == "" {
			errs = append(errs, ErrMissingPostgresDSN)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: RENTAL_EVENTSTORE must be one of memory, pgx, sql, sqlx", ErrInvalidConfig))
	}

	if len(errs) > 0 {
		return App{}, errors.Join(errs...)
	}

	return cfg, nil
}

func getenvOr(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}

	return def
}
