// Package postgresengine implements the eventstore contract on PostgreSQL.
//
// Events live in one table with a BIGSERIAL sequence number and a jsonb payload.
// Query translates an eventstore.Filter into a WHERE clause with jsonb containment predicates,
// Append inserts through a CTE that only yields rows while the highest sequence number selected by the same
// filter still equals the expected one, so a lost race affects zero rows and surfaces as ErrConcurrencyConflict.
//
// Three connection types are supported through internal adapters:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
//
//	db, _ := sqlx.Open("postgres", dsn) // lib/pq driver
//	store, _ := postgresengine.NewEventStoreFromSQLX(db, postgresengine.WithTableName("rental_events"))
//
//	_ = store.CreateSchema(ctx)
package postgresengine
