package changerentalstatus

import (
	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
)

// Decide implements the business logic to move a rental from one status to the next.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: a rental in the actor's scope
//	WHEN: an action is taken on it
//	THEN: the event of the transition is generated, it appends one tracking entry
//	IDEMPOTENCY: expire on a rental whose hold is still valid (or that left pending) changes nothing
//	ERROR: NOT_FOUND if the rental does not exist or is outside the actor's scope
//	ERROR: INVALID_TRANSITION if the (status, action) pair is not in the transition table
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	rental := core.ProjectRental(history, command.RentalID)

	if !inScope(rental, command) {
		return core.ErrorDecision(core.RentalNotFound(command.RentalID))
	}

	if command.Action == core.ActionExpire && !rental.HoldExpired(command.OccurredAt) {
		return core.IdempotentDecision()
	}

	event, err := core.BuildTransitionEvent(rental, command.Action, command.OccurredAt)
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(event)
}

func inScope(rental core.Rental, command Command) bool {
	switch {
	case !rental.Exists():
		return false
	case command.UserID != "" && rental.UserID != command.UserID:
		return false
	case command.Tenant != "" && rental.Tenant != command.Tenant:
		return false
	default:
		return true
	}
}

// BuildEventFilter creates the filter for all events of one rental, it is the consistency boundary of a status change.
func BuildEventFilter(rentalID core.RentalIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("RentalID", rentalID)).
		Finalize()
}
