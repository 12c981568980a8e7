package core

import (
	"time"
)

// RentalDispatchedEventType is the event type identifier.
const RentalDispatchedEventType = "RentalDispatched"

// RentalDispatchedDescription is the tracking description of the event.
const RentalDispatchedDescription = "Dispatched from the library"

// RentalDispatched represents that a librarian dispatched the copy of an approved rental.
type RentalDispatched struct {
	EventType   EventTypeString
	RentalID    RentalIDString
	TitleID     TitleIDString
	UserID      UserIDString
	Tenant      TenantString
	Location    string
	Description string
	OccurredAt  OccurredAtTS
}

// BuildRentalDispatched creates a new RentalDispatched event for the given rental.
func BuildRentalDispatched(rental Rental, location string, occurredAt time.Time) RentalDispatched {
	return RentalDispatched{
		EventType:   RentalDispatchedEventType,
		RentalID:    rental.ID,
		TitleID:     rental.TitleID,
		UserID:      rental.UserID,
		Tenant:      rental.Tenant,
		Location:    location,
		Description: RentalDispatchedDescription,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RentalDispatched) IsEventType() string {
	return RentalDispatchedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalDispatched) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalDispatched) ForRental() RentalIDString {
	return e.RentalID
}
