// Package helper provides test doubles and fixture builders shared by the tests of the rental features.
//
// Test doubles:
//   - MetricsCollectorSpy captures the calls of a MetricsCollector
//   - LogHandlerSpy captures slog records
//
// Fixtures:
//   - GivenHistory builds the events of one rental that went through a sequence of actions
//   - GivenStoredEvents appends events to an event store, each guarded by its rental's stream
package helper
