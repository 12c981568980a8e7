package checkout

import (
	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
)

// state represents the current state projected from the event history.
type state struct {
	hasOpenRental bool
}

// Decide implements the duplicate guard of one checkout item. It is a pure function.
//
// Business Rules:
//
//	GIVEN: a title and a user
//	WHEN: the user checks the title out
//	THEN: RentalRequested is generated, holding one copy until the hold expires
//	ERROR: ALREADY_REQUESTED if the user has a non-terminal rental of the title
func Decide(history core.DomainEvents, command ItemCommand) core.DecisionResult {
	s := project(history, command.UserID, command.Title.ID)

	if s.hasOpenRental {
		return core.ErrorDecision(core.AlreadyRequested(command.Title.ID))
	}

	return core.SuccessDecision(
		core.BuildRentalRequested(
			command.RentalID,
			command.Title,
			command.UserID,
			command.OccurredAt,
		),
	)
}

func project(history core.DomainEvents, userID core.UserIDString, titleID core.TitleIDString) state {
	s := state{}

	for _, rental := range core.ProjectRentals(history) {
		if rental.UserID == userID && rental.TitleID == titleID && rental.IsActive() {
			s.hasOpenRental = true
		}
	}

	return s
}

// BuildEventFilter creates the filter for all lifecycle events of the rentals of one user for one title.
// It is the consistency boundary of the duplicate guard.
func BuildEventFilter(userID core.UserIDString, titleID core.TitleIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.RentalRequestedEventType,
			core.RentalApprovedEventType,
			core.RentalDispatchedEventType,
			core.RentalDeliveredEventType,
			core.RentalReturnRequestedEventType,
			core.RentalReturnScheduledEventType,
			core.RentalReturnedEventType,
			core.RentalRejectedEventType,
			core.RentalHoldExpiredEventType,
		).
		AndAllPredicatesOf(
			eventstore.P("UserID", userID),
			eventstore.P("TitleID", titleID),
		).
		Finalize()
}
