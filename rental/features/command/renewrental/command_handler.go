package renewrental

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

// EventStore defines the interface needed by the CommandHandler for event store operations.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvent eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// CommandHandler orchestrates the renewal: Query -> Decide -> Append, retried on concurrency conflicts.
type CommandHandler struct {
	eventStore       EventStore
	retryOptions     []shell.RetryOption
	logger           shell.Logger
	metricsCollector shell.MetricsCollector
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithLogger sets the logger for the handler.
func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// WithMetrics sets the metrics collector for the handler and its retries.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(h *CommandHandler) {
		h.metricsCollector = collector
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	if handler.metricsCollector != nil {
		handler.retryOptions = append(handler.retryOptions, shell.WithMetrics(handler.metricsCollector, commandType))
	}

	return handler
}

// Handle renews the rental and returns it with its new due date.
func (h CommandHandler) Handle(ctx context.Context, command Command) (rental core.Rental, result shell.HandlerResult, err error) {
	startedAt := time.Now()
	defer func() {
		shell.ObserveCommand(h.logger, h.metricsCollector, commandType, startedAt, result, err)
	}()

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		rental, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.Rental{}, shell.NewErrorResult(retryMetrics), err
	}

	return rental, shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Rental, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	filter := BuildEventFilter(command.RentalID)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return core.Rental{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.Rental{}, err
	}

	decision := Decide(history, command)
	if decision.HasError() != nil {
		return core.Rental{}, decision.HasError()
	}

	eventMetadata := shell.BuildEventMetadata(uuid.New(), uuid.New(), uuid.New())

	storableEvent, err := shell.StorableEventFrom(decision.Event, eventMetadata)
	if err != nil {
		return core.Rental{}, err
	}

	if err = h.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent); err != nil {
		return core.Rental{}, err
	}

	return core.ProjectRental(append(history, decision.Event), command.RentalID), nil
}
