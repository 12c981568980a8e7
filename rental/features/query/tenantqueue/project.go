package tenantqueue

import (
	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
)

// Project selects the rentals of the tenant that are in the status of the query.
// The overdue status matches on the computed display status, all others on the stored one.
func Project(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) TenantQueue {
	result := TenantQueue{
		Status:         query.Status,
		Rentals:        make([]core.RentalView, 0),
		SequenceNumber: maxSequenceNumber,
	}

	for _, rental := range core.ProjectRentals(history) {
		if rental.Tenant != query.Tenant {
			continue
		}

		view := rental.ViewAt(query.At)
		if rental.Status == query.Status || view.DisplayStatus == query.Status {
			result.Rentals = append(result.Rentals, view)
		}
	}

	result.Count = len(result.Rentals)

	return result
}

// BuildEventFilter creates the filter for all events of the tenant's rentals.
func BuildEventFilter(tenant core.TenantString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("Tenant", tenant)).
		Finalize()
}
