package expireholds

import (
	"context"
	"errors"
	"time"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/features/command/changerentalstatus"
	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

const (
	logMsgExpireFailed  = "hold expiry failed, skipping rental"
	logMsgSweepFinished = "hold sweep finished"
	logAttrRentalID     = "rental_id"
	logAttrCandidates   = "candidates"
	logAttrExpired      = "expired"
	logAttrError        = "error"
)

// EventStore is the read side of the event store the sweep selects candidates from.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// Expirer runs the expire path of the state machine, changerentalstatus.CommandHandler implements it.
type Expirer interface {
	Handle(ctx context.Context, command changerentalstatus.Command) (changerentalstatus.Result, error)
}

// Sweeper finds pending rentals with a lapsed hold and expires them one by one.
type Sweeper struct {
	eventStore       EventStore
	expirer          Expirer
	logger           shell.Logger
	metricsCollector shell.MetricsCollector
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithLogger sets the logger for the sweeper.
func WithLogger(logger shell.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector for the sweeper.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *Sweeper) {
		s.metricsCollector = collector
	}
}

// NewSweeper creates a Sweeper.
func NewSweeper(eventStore EventStore, expirer Expirer, opts ...Option) *Sweeper {
	s := &Sweeper{
		eventStore: eventStore,
		expirer:    expirer,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Sweep expires every pending rental whose hold ended before now and returns how many it cancelled.
// A failure on a single rental is logged and skipped. Only a failing candidate query or a cancelled
// context stops the sweep early, together with the count reached so far.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.candidates(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0

	for _, rental := range candidates {
		if err = ctx.Err(); err != nil {
			return expired, err
		}

		result, expireErr := s.expirer.Handle(ctx, changerentalstatus.BuildExpireCommand(rental.ID, now))

		switch {
		case errors.Is(expireErr, core.ErrNotFound):
			continue
		case expireErr != nil:
			s.logWarn(logMsgExpireFailed, logAttrRentalID, rental.ID, logAttrError, expireErr.Error())
			continue
		case result.Handler.Idempotent:
			continue
		}

		expired++

		if s.metricsCollector != nil {
			s.metricsCollector.IncrementCounter(shell.HoldsExpiredMetric, map[string]string{})
		}
	}

	if s.logger != nil {
		s.logger.Info(logMsgSweepFinished, logAttrCandidates, len(candidates), logAttrExpired, expired)
	}

	return expired, nil
}

func (s *Sweeper) candidates(ctx context.Context, now time.Time) ([]core.Rental, error) {
	storableEvents, _, err := s.eventStore.Query(ctx, BuildEventFilter())
	if err != nil {
		return nil, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, err
	}

	candidates := make([]core.Rental, 0)
	for _, rental := range core.ProjectRentals(history) {
		if rental.HoldExpired(now) {
			candidates = append(candidates, rental)
		}
	}

	return candidates, nil
}

func (s *Sweeper) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// BuildEventFilter selects the events that decide whether a rental is still pending.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.RentalRequestedEventType,
			core.RentalApprovedEventType,
			core.RentalRejectedEventType,
			core.RentalHoldExpiredEventType,
		).
		Finalize()
}
