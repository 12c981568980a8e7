package core

import (
	"time"
)

// RentalRejectedEventType is the event type identifier.
const RentalRejectedEventType = "RentalRejected"

// RentalRejectedDescription is the tracking description of the event.
const RentalRejectedDescription = "Request rejected by the library"

// RentalRejected represents a librarian declining a pending rental. The held copy is released.
type RentalRejected struct {
	EventType   EventTypeString
	RentalID    RentalIDString
	TitleID     TitleIDString
	UserID      UserIDString
	Tenant      TenantString
	Location    string
	Description string
	OccurredAt  OccurredAtTS
}

// BuildRentalRejected creates a new RentalRejected event for the given rental.
func BuildRentalRejected(rental Rental, location string, occurredAt time.Time) RentalRejected {
	return RentalRejected{
		EventType:   RentalRejectedEventType,
		RentalID:    rental.ID,
		TitleID:     rental.TitleID,
		UserID:      rental.UserID,
		Tenant:      rental.Tenant,
		Location:    location,
		Description: RentalRejectedDescription,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RentalRejected) IsEventType() string {
	return RentalRejectedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalRejected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalRejected) ForRental() RentalIDString {
	return e.RentalID
}
