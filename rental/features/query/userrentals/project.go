package userrentals

import (
	"slices"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
)

// Project builds the dashboard of the user from the history of their rentals.
// This is a pure function with no side effects.
//
// Query Logic:
//
//	GIVEN: All events of the user's rentals
//	WHEN: UserRentals query is executed
//	THEN: every rental of the user is returned, newest request first
//	INCLUDES: terminal rentals, for the rental history of the dashboard
func Project(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) UserRentals {
	rentals := core.ProjectRentals(history)
	slices.Reverse(rentals)
	slices.SortStableFunc(rentals, func(a, b core.Rental) int {
		return b.RequestDate.Compare(a.RequestDate)
	})

	result := UserRentals{
		Rentals:        make([]core.RentalView, 0, len(rentals)),
		SequenceNumber: maxSequenceNumber,
	}

	for _, rental := range rentals {
		if rental.UserID != query.UserID {
			continue
		}

		view := rental.ViewAt(query.At)
		result.Rentals = append(result.Rentals, view)

		if rental.IsActive() {
			result.Active++
		}

		if view.Overdue {
			result.Overdue++
		}
	}

	result.Count = len(result.Rentals)

	return result
}

// BuildEventFilter creates the filter for all events of the user's rentals.
func BuildEventFilter(userID core.UserIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("UserID", userID)).
		Finalize()
}
