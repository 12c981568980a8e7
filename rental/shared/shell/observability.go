package shell

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/onelib/rentalengine/eventstore"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerIdempotentMetric tracks idempotent operations.
	CommandHandlerIdempotentMetric = "commandhandler_idempotent_operations_total"

	// CommandHandlerRetriesMetric tracks retry attempts, labeled with command_type, attempt_number and error_type.
	CommandHandlerRetriesMetric = "commandhandler_retries_total"

	// CommandHandlerRetryDelayMetric tracks backoff delays, labeled with command_type and attempt_number.
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"

	// CommandHandlerMaxRetriesReachedMetric tracks exhausted retries, labeled with command_type and final_error_type.
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	// QueryHandlerDurationMetric tracks query handler execution duration.
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	// CheckoutItemsMetric counts checkout items by outcome (created, or the error code that excluded them).
	CheckoutItemsMetric = "checkout_items_total"

	// HoldsExpiredMetric counts pending rentals cancelled by the hold sweep.
	HoldsExpiredMetric = "holds_expired_total"

	// StatusSuccess indicates successful command completion.
	StatusSuccess = "success"

	// StatusError indicates a command processing error, business errors included.
	StatusError = "error"

	// StatusIdempotent indicates no state change was needed.
	StatusIdempotent = "idempotent"

	// StatusCanceled indicates the operation was canceled due to context cancellation.
	StatusCanceled = "canceled"

	// StatusTimeout indicates the operation timed out due to context deadline exceeded.
	StatusTimeout = "timeout"

	// StatusConcurrencyConflict indicates the operation failed after exhausting its retries on conflicts.
	StatusConcurrencyConflict = "concurrency_conflict"

	// LogMsgCommandCompleted is logged when command processing succeeds.
	LogMsgCommandCompleted = "command handler completed"

	// LogMsgCommandFailed is logged when command processing fails.
	LogMsgCommandFailed = "command handler failed"

	// LogMsgQueryCompleted is logged when query processing succeeds.
	LogMsgQueryCompleted = "query handler completed"

	// LogMsgQueryFailed is logged when query processing fails.
	LogMsgQueryFailed = "query handler failed"

	// LogAttrCommandType identifies the command type in logs.
	LogAttrCommandType = "command_type"

	// LogAttrQueryType identifies the query type in logs.
	LogAttrQueryType = "query_type"

	// LogAttrStatus indicates the processing status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrRetryAttempts indicates how many attempts a command needed.
	LogAttrRetryAttempts = "retry_attempts"

	// LogAttrError contains error details.
	LogAttrError = "error"

	// LabelAttemptNumber labels retry metrics with the attempt number.
	LabelAttemptNumber = "attempt_number"

	// LabelErrorType labels retry metrics with the error category.
	LabelErrorType = "error_type"

	// LabelFinalErrorType labels exhausted retries with the last error category.
	LabelFinalErrorType = "final_error_type"

	// LabelOutcome labels checkout item metrics.
	LabelOutcome = "outcome"
)

// MetricsCollector interface for collecting handler metrics. It is the one of the event store.
type MetricsCollector = eventstore.MetricsCollector

// Logger interface for basic logging in handlers. *slog.Logger satisfies it.
type Logger = eventstore.Logger

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LabelAttemptNumber: strconv.Itoa(attemptNumber),
		LabelErrorType:     errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// StatusFrom classifies the outcome of a handler call for logs and metrics.
func StatusFrom(result HandlerResult, err error) string {
	switch {
	case err == nil && result.Idempotent:
		return StatusIdempotent
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	default:
		return StatusError
	}
}

// ObserveCommand records metrics and one log line for a finished command handler call.
// Nil collectors and loggers are skipped.
func ObserveCommand(
	logger Logger,
	collector MetricsCollector,
	commandType string,
	startedAt time.Time,
	result HandlerResult,
	err error,
) {
	duration := time.Since(startedAt)
	status := StatusFrom(result, err)

	if collector != nil {
		labels := BuildCommandLabels(commandType, status)
		collector.RecordDuration(CommandHandlerDurationMetric, duration, labels)
		collector.IncrementCounter(CommandHandlerCallsMetric, labels)

		if status == StatusIdempotent {
			collector.IncrementCounter(CommandHandlerIdempotentMetric, labels)
		}
	}

	if logger == nil {
		return
	}

	args := []any{
		LogAttrCommandType, commandType,
		LogAttrStatus, status,
		LogAttrDurationMS, ToMilliseconds(duration),
		LogAttrRetryAttempts, result.RetryAttempts,
	}

	if err != nil {
		logger.Warn(LogMsgCommandFailed, append(args, LogAttrError, err.Error())...)
		return
	}

	logger.Debug(LogMsgCommandCompleted, args...)
}

// ObserveQuery records metrics and one log line for a finished query handler call.
func ObserveQuery(logger Logger, collector MetricsCollector, queryType string, startedAt time.Time, err error) {
	duration := time.Since(startedAt)
	status := StatusFrom(HandlerResult{}, err)

	if collector != nil {
		labels := BuildQueryLabels(queryType, status)
		collector.RecordDuration(QueryHandlerDurationMetric, duration, labels)
		collector.IncrementCounter(QueryHandlerCallsMetric, labels)
	}

	if logger == nil {
		return
	}

	if err != nil {
		logger.Warn(LogMsgQueryFailed, LogAttrQueryType, queryType, LogAttrError, err.Error())
		return
	}

	logger.Debug(LogMsgQueryCompleted, LogAttrQueryType, queryType, LogAttrDurationMS, ToMilliseconds(duration))
}
