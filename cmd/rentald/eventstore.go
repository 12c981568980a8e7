package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/eventstore/memengine"
	"github.com/onelib/rentalengine/eventstore/postgresengine"
	"github.com/onelib/rentalengine/rental/shared/shell"
	"github.com/onelib/rentalengine/rental/shared/shell/config"
)

// openEventStore builds the engine selected by cfg.EventStore. The returned func releases its connections.
func openEventStore(
	ctx context.Context,
	cfg config.App,
	logger *slog.Logger,
	collector eventstore.MetricsCollector,
) (shell.EventStore, func(), error) {

	if cfg.EventStore == config.EventStoreMemory {
		es, err := memengine.NewEventStore(memengine.WithLogger(logger), memengine.WithMetrics(collector))
		return es, func() {}, err
	}

	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.EventsTable),
		postgresengine.WithLogger(logger),
		postgresengine.WithMetrics(collector),
	}

	var (
		es      postgresengine.EventStore
		release func()
		err     error
	)

	switch cfg.EventStore {
	case config.EventStorePGX:
		pool, poolErr := config.NewPGXPool(ctx, cfg.PostgresDSN)
		if poolErr != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", poolErr)
		}
		release = pool.Close

		if cfg.ReplicaDSN == "" {
			es, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)
			break
		}

		replica, replicaErr := config.NewPGXPool(ctx, cfg.ReplicaDSN)
		if replicaErr != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to connect to postgres replica: %w", replicaErr)
		}
		release = func() {
			replica.Close()
			pool.Close()
		}
		es, err = postgresengine.NewEventStoreFromPGXPoolAndReplica(pool, replica, options...)

	case config.EventStoreSQL:
		db, dbErr := config.NewSQLDB(ctx, cfg.PostgresDSN)
		if dbErr != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", dbErr)
		}
		release = func() { _ = db.Close() }
		es, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case config.EventStoreSQLX:
		db, dbErr := config.NewSQLX(ctx, cfg.PostgresDSN)
		if dbErr != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", dbErr)
		}
		release = func() { _ = db.Close() }
		es, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		return nil, nil, fmt.Errorf("%w: unknown event store %q", config.ErrInvalidConfig, cfg.EventStore)
	}

	if err != nil {
		release()
		return nil, nil, err
	}

	if err = es.CreateSchema(ctx); err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create event store schema: %w", err)
	}

	return es, release, nil
}
