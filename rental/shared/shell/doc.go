// Package shell contains the imperative shell shared by the rental features.
//
// It maps between domain events and storable events, retries appends that lost an optimistic
// concurrency race, and carries the logging and metrics helpers of the command and query handlers.
// Infrastructure adapters (inventory ledger, catalog, notification sinks, config, metrics, HTTP)
// live in the subpackages.
package shell
