package overduerentals

import (
	"slices"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
)

// Project selects the overdue rentals of the tenant, ordered by due date.
func Project(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) OverdueRentals {
	result := OverdueRentals{
		Rentals:        make([]OverdueRental, 0),
		SequenceNumber: maxSequenceNumber,
	}

	for _, rental := range core.ProjectRentals(history) {
		if rental.Tenant != query.Tenant || !rental.IsOverdue(query.At) {
			continue
		}

		result.Rentals = append(result.Rentals, OverdueRental{
			RentalView:  rental.ViewAt(query.At),
			DaysOverdue: daysBetween(rental.DueDate, query.At),
		})
	}

	slices.SortStableFunc(result.Rentals, func(a, b OverdueRental) int {
		return a.DueDate.Compare(b.DueDate)
	})

	result.Count = len(result.Rentals)

	return result
}

// BuildEventFilter creates the filter for the events that decide whether a rental of the tenant is overdue.
func BuildEventFilter(tenant core.TenantString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.RentalRequestedEventType,
			core.RentalApprovedEventType,
			core.RentalDispatchedEventType,
			core.RentalDeliveredEventType,
			core.RentalReturnRequestedEventType,
			core.RentalRenewedEventType,
		).
		AndAnyPredicateOf(eventstore.P("Tenant", tenant)).
		Finalize()
}
