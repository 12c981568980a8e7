package rentaldetails

import (
	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
)

// Project folds the history of one rental into its details.
// It fails with NOT_FOUND if the rental does not exist or lies outside the scope of the query.
func Project(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) (RentalDetails, error) {
	rental := core.ProjectRental(history, query.RentalID)

	switch {
	case !rental.Exists():
		return RentalDetails{}, core.RentalNotFound(query.RentalID)
	case query.UserID != "" && rental.UserID != query.UserID:
		return RentalDetails{}, core.RentalNotFound(query.RentalID)
	case query.Tenant != "" && rental.Tenant != query.Tenant:
		return RentalDetails{}, core.RentalNotFound(query.RentalID)
	}

	return RentalDetails{
		Rental:         rental.ViewAt(query.At),
		SequenceNumber: maxSequenceNumber,
	}, nil
}

// BuildEventFilter creates the filter for all events of one rental.
func BuildEventFilter(rentalID core.RentalIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("RentalID", rentalID)).
		Finalize()
}
