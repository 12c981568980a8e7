package core

import (
	"time"
)

// RentalReturnRequestedEventType is the event type identifier.
const RentalReturnRequestedEventType = "RentalReturnRequested"

// RentalReturnRequestedDescription is the tracking description of the event.
const RentalReturnRequestedDescription = "Return requested by the member"

// RentalReturnRequested represents that the user asked to return a delivered copy.
type RentalReturnRequested struct {
	EventType   EventTypeString
	RentalID    RentalIDString
	TitleID     TitleIDString
	UserID      UserIDString
	Tenant      TenantString
	Location    string
	Description string
	OccurredAt  OccurredAtTS
}

// BuildRentalReturnRequested creates a new RentalReturnRequested event for the given rental.
func BuildRentalReturnRequested(rental Rental, location string, occurredAt time.Time) RentalReturnRequested {
	return RentalReturnRequested{
		EventType:   RentalReturnRequestedEventType,
		RentalID:    rental.ID,
		TitleID:     rental.TitleID,
		UserID:      rental.UserID,
		Tenant:      rental.Tenant,
		Location:    location,
		Description: RentalReturnRequestedDescription,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RentalReturnRequested) IsEventType() string {
	return RentalReturnRequestedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalReturnRequested) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalReturnRequested) ForRental() RentalIDString {
	return e.RentalID
}
