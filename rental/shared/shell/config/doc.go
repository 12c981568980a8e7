// Package config loads the runtime configuration of rentald from environment variables
// and builds the Postgres connections for the event store engines (pgx.Pool, sql.DB, sqlx.DB).
package config
