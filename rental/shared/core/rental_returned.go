package core

import (
	"time"
)

// RentalReturnedEventType is the event type identifier.
const RentalReturnedEventType = "RentalReturned"

// RentalReturnedDescription is the tracking description of the event.
const RentalReturnedDescription = "Returned to the library"

// RentalReturned represents that the library received the copy back; the rental is terminal and its copy is released.
type RentalReturned struct {
	EventType   EventTypeString
	RentalID    RentalIDString
	TitleID     TitleIDString
	UserID      UserIDString
	Tenant      TenantString
	Location    string
	Description string
	OccurredAt  OccurredAtTS
}

// BuildRentalReturned creates a new RentalReturned event for the given rental.
func BuildRentalReturned(rental Rental, location string, occurredAt time.Time) RentalReturned {
	return RentalReturned{
		EventType:   RentalReturnedEventType,
		RentalID:    rental.ID,
		TitleID:     rental.TitleID,
		UserID:      rental.UserID,
		Tenant:      rental.Tenant,
		Location:    location,
		Description: RentalReturnedDescription,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RentalReturned) IsEventType() string {
	return RentalReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalReturned) ForRental() RentalIDString {
	return e.RentalID
}
