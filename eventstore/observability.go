package eventstore

import (
	"time"
)

// Logger is the logging contract of the engines. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector receives operational metrics from the engines and from the command handlers built on them.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

const (
	// MetricQueryDuration tracks how long engine queries take.
	MetricQueryDuration = "eventstore_query_duration_seconds"

	// MetricAppendDuration tracks how long engine appends take.
	MetricAppendDuration = "eventstore_append_duration_seconds"

	// MetricConcurrencyConflicts counts appends rejected with ErrConcurrencyConflict.
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"

	// MetricEventsAppended counts appended events.
	MetricEventsAppended = "eventstore_events_appended_total"

	// LabelEngine names the engine that reported a metric.
	LabelEngine = "engine"
)
