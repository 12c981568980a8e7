// Package postgreswrapper connects the postgres engine to a real database for integration tests.
//
// Tests using it are skipped unless RENTAL_TEST_POSTGRES_DSN is set. RENTAL_TEST_POSTGRES_ENGINE picks
// the adapter: pgx (default), sql or sqlx.
package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/onelib/rentalengine/eventstore/postgresengine"
	"github.com/onelib/rentalengine/rental/shared/shell/config"
)

const (
	envDSN    = "RENTAL_TEST_POSTGRES_DSN"
	envEngine = "RENTAL_TEST_POSTGRES_ENGINE"
)

// Wrapper abstracts over the adapter-specific connection behind an EventStore.
type Wrapper interface {
	EventStore() postgresengine.EventStore
	Exec(ctx context.Context, query string) error
	Close()
}

type pgxPoolWrapper struct {
	pool *pgxpool.Pool
	es   postgresengine.EventStore
}

func (w *pgxPoolWrapper) EventStore() postgresengine.EventStore { return w.es }

func (w *pgxPoolWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.pool.Exec(ctx, query)
	return err
}

func (w *pgxPoolWrapper) Close() { w.pool.Close() }

type sqlDBWrapper struct {
	db *sql.DB
	es postgresengine.EventStore
}

func (w *sqlDBWrapper) EventStore() postgresengine.EventStore { return w.es }

func (w *sqlDBWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *sqlDBWrapper) Close() { _ = w.db.Close() }

type sqlxWrapper struct {
	db *sqlx.DB
	es postgresengine.EventStore
}

func (w *sqlxWrapper) EventStore() postgresengine.EventStore { return w.es }

func (w *sqlxWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *sqlxWrapper) Close() { _ = w.db.Close() }

// New connects to the test database, creates the events table and truncates it.
// The connection is closed when the test ends.
func New(t testing.TB, table string) Wrapper {
	t.Helper()

	dsn := os.Getenv(envDSN)
	if dsn == "" {
		t.Skipf("%s is not set", envDSN)
	}

	ctx := context.Background()
	options := []postgresengine.Option{postgresengine.WithTableName(table)}

	var wrapper Wrapper

	switch engine := strings.ToLower(os.Getenv(envEngine)); engine {
	case config.EventStorePGX, "":
		pool, err := config.NewPGXPool(ctx, dsn)
		require.NoError(t, err, "error connecting to the test database")

		es, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)
		require.NoError(t, err)
		wrapper = &pgxPoolWrapper{pool: pool, es: es}

	case config.EventStoreSQL:
		db, err := config.NewSQLDB(ctx, dsn)
		require.NoError(t, err, "error connecting to the test database")

		es, err := postgresengine.NewEventStoreFromSQLDB(db, options...)
		require.NoError(t, err)
		wrapper = &sqlDBWrapper{db: db, es: es}

	case config.EventStoreSQLX:
		db, err := config.NewSQLX(ctx, dsn)
		require.NoError(t, err, "error connecting to the test database")

		es, err := postgresengine.NewEventStoreFromSQLX(db, options...)
		require.NoError(t, err)
		wrapper = &sqlxWrapper{db: db, es: es}

	default:
		t.Fatalf("unsupported %s: %s", envEngine, engine)
	}

	t.Cleanup(wrapper.Close)

	require.NoError(t, wrapper.EventStore().CreateSchema(ctx), "error creating the events table")
	require.NoError(t, wrapper.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", table)))

	return wrapper
}
