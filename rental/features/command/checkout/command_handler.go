package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
	"github.com/onelib/rentalengine/rental/shared/shell/inventory"
)

const outcomeCreated = "created"

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

// Catalog resolves the titles of the cart.
type Catalog interface {
	Title(ctx context.Context, id core.TitleIDString) (core.Title, error)
}

// Inventory is the part of the inventory ledger a checkout needs.
type Inventory interface {
	Level(titleID core.TitleIDString) (inventory.StockLevel, error)
	ReserveFor(titleID core.TitleIDString, create func() error) error
}

// ItemResult reports what happened to one title of the cart.
// Code is empty for created rentals.
type ItemResult struct {
	TitleID  core.TitleIDString  `json:"titleId"`
	RentalID core.RentalIDString `json:"rentalId,omitempty"`
	Code     core.ErrCode        `json:"code,omitempty"`
	Message  string              `json:"message,omitempty"`
}

// Result is the outcome of a checkout.
// Quote covers exactly the rentals in Created.
type Result struct {
	Created []core.Rental
	Items   []ItemResult
	Quote   core.Quote
	Handler shell.HandlerResult
}

// CommandHandler orchestrates a checkout: one Query -> Decide -> reserve+Append cycle per title,
// each retried on its own when it loses an optimistic concurrency race.
type CommandHandler struct {
	eventStore       EventStore
	catalog          Catalog
	inventory        Inventory
	notifications    shell.NotificationSink
	retryOptions     []shell.RetryOption
	logger           shell.Logger
	metricsCollector shell.MetricsCollector
	newID            func() uuid.UUID
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
func NewCommandHandler(
	eventStore EventStore,
	catalog Catalog,
	inventory Inventory,
	notifications shell.NotificationSink,
	opts ...Option,
) CommandHandler {

	handler := CommandHandler{
		eventStore:    eventStore,
		catalog:       catalog,
		inventory:     inventory,
		notifications: notifications,
		newID:         uuid.New,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	if handler.metricsCollector != nil {
		handler.retryOptions = append(handler.retryOptions, shell.WithMetrics(handler.metricsCollector, commandType))
	}

	return handler
}

// Handle runs the checkout. It returns an error only when no rental could be created:
// NOTHING_TO_CHECKOUT when every item was excluded by a business rule, otherwise the first infrastructure error.
// The per-item outcomes are in Result.Items in both cases.
func (h CommandHandler) Handle(ctx context.Context, command Command) (result Result, err error) {
	startedAt := time.Now()
	defer func() {
		shell.ObserveCommand(h.logger, h.metricsCollector, commandType, startedAt, result.Handler, err)
	}()

	candidates, excluded, selectErr := h.selectPurchasable(ctx, command)
	result.Items = excluded

	if len(candidates) == 0 {
		h.recordItemOutcomes(result.Items)

		if selectErr != nil {
			result.Handler = shell.NewErrorResult(shell.RetryMetrics{})
			return result, selectErr
		}

		return h.nothingToCheckout(ctx, command, result)
	}

	retryMetrics := shell.RetryMetrics{}
	checkoutID := h.newID()
	var infraErr error

	for _, title := range candidates {
		item := ItemCommand{
			RentalID:   h.newID().String(),
			Title:      title,
			UserID:     command.UserID,
			OccurredAt: command.OccurredAt,
		}

		var rental core.Rental

		itemMetrics, itemErr := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
			created, execErr := h.createRental(retryCtx, item, checkoutID)
			rental = created

			return execErr
		}, h.retryOptions...)

		retryMetrics.Attempts += itemMetrics.Attempts
		retryMetrics.TotalDelay += itemMetrics.TotalDelay
		retryMetrics.LastErrorType = itemMetrics.LastErrorType
		retryMetrics.RetriesExhausted = retryMetrics.RetriesExhausted || itemMetrics.RetriesExhausted

		if itemErr != nil {
			if core.Code(itemErr) == "" && infraErr == nil {
				infraErr = itemErr
			}

			result.Items = append(result.Items, itemFailed(title.ID, itemErr))

			continue
		}

		result.Created = append(result.Created, rental)
		result.Items = append(result.Items, ItemResult{TitleID: title.ID, RentalID: rental.ID})
	}

	h.recordItemOutcomes(result.Items)

	if len(result.Created) == 0 {
		result.Handler = shell.NewErrorResult(retryMetrics)

		if infraErr != nil {
			return result, infraErr
		}

		return h.nothingToCheckout(ctx, command, result)
	}

	prices := make([]int, 0, len(result.Created))
	for _, rental := range result.Created {
		prices = append(prices, rental.RentPrice)
	}

	result.Quote = core.PriceCart(prices, command.AvailablePoints)
	result.Handler = shell.NewSuccessResult(retryMetrics)

	h.notifySummary(ctx, command.UserID, result)

	return result, nil
}

// selectPurchasable runs the duplicate guard and the live stock check, in that order.
// Besides the excluded items it returns the first error that carries no business code.
func (h CommandHandler) selectPurchasable(
	ctx context.Context,
	command Command,
) ([]core.Title, []ItemResult, error) {
	candidates := make([]core.Title, 0, len(command.TitleIDs))
	excluded := make([]ItemResult, 0)

	var infraErr error
	exclude := func(titleID core.TitleIDString, err error) {
		if core.Code(err) == "" && infraErr == nil {
			infraErr = err
		}

		excluded = append(excluded, itemFailed(titleID, err))
	}

	for _, titleID := range command.TitleIDs {
		title, err := h.catalog.Title(ctx, titleID)
		if err != nil {
			exclude(titleID, err)
			continue
		}

		history, _, err := h.queryHistory(ctx, command.UserID, titleID)
		if err != nil {
			exclude(titleID, err)
			continue
		}

		guard := ItemCommand{Title: title, UserID: command.UserID, OccurredAt: command.OccurredAt}
		if decision := Decide(history, guard); decision.HasError() != nil {
			exclude(titleID, decision.HasError())
			continue
		}

		candidates = append(candidates, title)
	}

	purchasable := candidates[:0]

	for _, title := range candidates {
		level, err := h.inventory.Level(title.ID)
		if err != nil {
			exclude(title.ID, err)
			continue
		}

		if level.AvailableCopies == 0 {
			exclude(title.ID, core.OutOfStock(title.ID))
			continue
		}

		purchasable = append(purchasable, title)
	}

	return purchasable, excluded, infraErr
}

// createRental is the retryable unit of one item: Query -> Decide -> reserve + Append.
func (h CommandHandler) createRental(ctx context.Context, item ItemCommand, checkoutID uuid.UUID) (core.Rental, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	history, maxSequenceNumber, err := h.queryHistory(ctx, item.UserID, item.Title.ID)
	if err != nil {
		return core.Rental{}, err
	}

	decision := Decide(history, item)
	if decision.HasError() != nil {
		return core.Rental{}, decision.HasError()
	}

	eventMetadata := shell.BuildEventMetadata(h.newID(), checkoutID, checkoutID)

	storableEvent, err := shell.StorableEventFrom(decision.Event, eventMetadata)
	if err != nil {
		return core.Rental{}, err
	}

	filter := BuildEventFilter(item.UserID, item.Title.ID)

	err = h.inventory.ReserveFor(item.Title.ID, func() error {
		return h.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent)
	})
	if err != nil {
		return core.Rental{}, err
	}

	return core.Rental{}.Apply(decision.Event), nil
}

func (h CommandHandler) queryHistory(
	ctx context.Context,
	userID core.UserIDString,
	titleID core.TitleIDString,
) (core.DomainEvents, eventstore.MaxSequenceNumberUint, error) {

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter(userID, titleID))
	if err != nil {
		return nil, 0, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}

func (h CommandHandler) nothingToCheckout(ctx context.Context, command Command, result Result) (Result, error) {
	err := core.NothingToCheckout(len(command.TitleIDs))

	if h.notifications != nil {
		h.notifications.Enqueue(ctx, command.UserID, "None of the selected books could be rented.", core.NotificationError)
	}

	return result, errors.Join(err, itemErrors(result.Items))
}

func (h CommandHandler) notifySummary(ctx context.Context, userID core.UserIDString, result Result) {
	if h.notifications == nil {
		return
	}

	skipped := len(result.Items) - len(result.Created)
	if skipped == 0 {
		h.notifications.Enqueue(ctx, userID,
			fmt.Sprintf("Successfully rented %d book(s)!", len(result.Created)),
			core.NotificationSuccess)

		return
	}

	h.notifications.Enqueue(ctx, userID,
		fmt.Sprintf("Rented %d book(s), %d could not be rented.", len(result.Created), skipped),
		core.NotificationWarning)
}

func (h CommandHandler) recordItemOutcomes(items []ItemResult) {
	if h.metricsCollector == nil {
		return
	}

	for _, item := range items {
		outcome := outcomeCreated
		if item.RentalID == "" {
			outcome = string(item.Code)
		}

		if outcome == "" {
			outcome = shell.StatusError
		}

		h.metricsCollector.IncrementCounter(shell.CheckoutItemsMetric, map[string]string{shell.LabelOutcome: outcome})
	}
}

func itemFailed(titleID core.TitleIDString, err error) ItemResult {
	return ItemResult{TitleID: titleID, Code: core.Code(err), Message: err.Error()}
}

func itemErrors(items []ItemResult) error {
	errs := make([]error, 0, len(items))
	for _, item := range items {
		if item.Message != "" {
			errs = append(errs, errors.New(item.Message))
		}
	}

	return errors.Join(errs...)
}
