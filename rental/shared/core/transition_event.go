package core

import (
	"time"
)

// BuildTransitionEvent validates the action against the status of the rental and builds the event that records it.
// It fails with InvalidTransition for every (status, action) pair missing from the transition table.
func BuildTransitionEvent(rental Rental, action Action, occurredAt time.Time) (DomainEvent, error) {
	if _, ok := NextStatus(rental.Status, action); !ok {
		return nil, InvalidTransition(rental.Status, action)
	}

	location := action.Location()

	switch action {
	case ActionApprove:
		return BuildRentalApproved(rental, location, occurredAt), nil
	case ActionDispatch:
		return BuildRentalDispatched(rental, location, occurredAt), nil
	case ActionDeliver:
		return BuildRentalDelivered(rental, location, occurredAt), nil
	case ActionRequestReturn:
		return BuildRentalReturnRequested(rental, location, occurredAt), nil
	case ActionScheduleReturn:
		return BuildRentalReturnScheduled(rental, location, occurredAt), nil
	case ActionConfirmReturn:
		return BuildRentalReturned(rental, location, occurredAt), nil
	case ActionReject:
		return BuildRentalRejected(rental, location, occurredAt), nil
	case ActionExpire:
		return BuildRentalHoldExpired(rental, location, occurredAt), nil
	default:
		return nil, InvalidTransition(rental.Status, action)
	}
}
