package changerentalstatus

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

// Inventory is the part of the inventory ledger a status change needs.
type Inventory interface {
	Knows(titleID core.TitleIDString) bool
	ReleaseAfter(titleID core.TitleIDString, commit func() error) error
}

// Result carries the rental as it is after the command.
type Result struct {
	Rental  core.Rental
	Handler shell.HandlerResult
}

// CommandHandler orchestrates the complete command handling workflow.
// It handles infrastructure concerns like event store interactions, timing collection, and delegates
// business logic decisions to the pure Decide function.
type CommandHandler struct {
	eventStore       EventStore
	inventory        Inventory
	notifications    shell.NotificationSink
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
// The notification sink may be nil.
func NewCommandHandler(
	eventStore EventStore,
	inventory Inventory,
	notifications shell.NotificationSink,
	opts ...Option,
) CommandHandler {

	handler := CommandHandler{
		eventStore:    eventStore,
		inventory:     inventory,
		notifications: notifications,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	if handler.metricsCollector != nil {
		handler.retryOptions = append(handler.retryOptions, shell.WithMetrics(handler.metricsCollector, commandType))
	}

	return handler
}

// Handle executes the complete command handling workflow with retry on concurrency conflicts.
// The member is notified of every change that TransitionNotice has a message for.
func (h CommandHandler) Handle(ctx context.Context, command Command) (result Result, err error) {
	startedAt := time.Now()
	defer func() {
		shell.ObserveCommand(h.logger, h.metricsCollector, commandType, startedAt, result.Handler, err)
	}()

	var idempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		result.Rental, idempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	switch {
	case err != nil:
		result.Handler = shell.NewErrorResult(retryMetrics)
		return result, err
	case idempotent:
		result.Handler = shell.NewIdempotentResult(retryMetrics)
		return result, nil
	}

	result.Handler = shell.NewSuccessResult(retryMetrics)
	h.notify(ctx, result.Rental, command.Action)

	return result, nil
}

// executeCommand performs a single attempt of the command handling logic.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Rental, bool, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	filter := BuildEventFilter(command.RentalID)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return core.Rental{}, false, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.Rental{}, false, err
	}

	decision := Decide(history, command)
	if decision.HasError() != nil {
		return core.Rental{}, false, decision.HasError()
	}

	rental := core.ProjectRental(history, command.RentalID)
	if decision.IsIdempotent() {
		return rental, true, nil
	}

	eventMetadata := shell.BuildEventMetadata(uuid.New(), uuid.New(), uuid.New())

	storableEvent, err := shell.StorableEventFrom(decision.Event, eventMetadata)
	if err != nil {
		return core.Rental{}, false, err
	}

	changed := rental.Apply(decision.Event)

	appendEvent := func() error {
		return h.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent)
	}

	if changed.Status.ReleasesStock() && h.inventory.Knows(changed.TitleID) {
		err = h.inventory.ReleaseAfter(changed.TitleID, appendEvent)
	} else {
		err = appendEvent()
	}

	if err != nil {
		return core.Rental{}, false, err
	}

	return changed, false, nil
}

func (h CommandHandler) notify(ctx context.Context, rental core.Rental, action core.Action) {
	if h.notifications == nil {
		return
	}

	if message, kind, ok := core.TransitionNotice(rental, action); ok {
		h.notifications.Enqueue(ctx, rental.UserID, message, kind)
	}
}
