// Package memengine is an in-process implementation of the eventstore contract.
//
// It keeps all events in memory in one global sequence and evaluates eventstore.Filter(s)
// against an index of the top-level string fields of each payload. Append compares the highest
// sequence number selected by the filter with the expected one while holding the write lock,
// which gives the same optimistic concurrency semantics as the CTE-guarded insert of postgresengine.
//
// Nothing is persisted; the engine is meant for single-process deployments and tests.
package memengine
