package renewrental

import (
	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
)

// Decide implements the business logic to renew a rental.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: a rental of the member
//	WHEN: the member renews it
//	THEN: RentalRenewed is generated, moving the due date by core.RentalPeriod without a tracking entry
//	ERROR: NOT_FOUND if the rental does not exist or belongs to another member
//	ERROR: INVALID_TRANSITION unless the rental is delivered (overdue included)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	rental := core.ProjectRental(history, command.RentalID)

	if !rental.Exists() || rental.UserID != command.UserID {
		return core.ErrorDecision(core.RentalNotFound(command.RentalID))
	}

	if rental.Status != core.StatusDelivered {
		return core.ErrorDecision(core.InvalidTransition(rental.Status, core.ActionRenew))
	}

	return core.SuccessDecision(core.BuildRentalRenewed(rental, command.OccurredAt))
}

// BuildEventFilter creates the filter for all events of one rental.
func BuildEventFilter(rentalID core.RentalIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("RentalID", rentalID)).
		Finalize()
}
