package core

import (
	"time"
)

// RentalReturnScheduledEventType is the event type identifier.
const RentalReturnScheduledEventType = "RentalReturnScheduled"

// RentalReturnScheduledDescription is the tracking description of the event.
const RentalReturnScheduledDescription = "Return pickup scheduled"

// RentalReturnScheduled represents that a librarian scheduled the pickup of a copy whose return was requested.
type RentalReturnScheduled struct {
	EventType   EventTypeString
	RentalID    RentalIDString
	TitleID     TitleIDString
	UserID      UserIDString
	Tenant      TenantString
	Location    string
	Description string
	OccurredAt  OccurredAtTS
}

// BuildRentalReturnScheduled creates a new RentalReturnScheduled event for the given rental.
func BuildRentalReturnScheduled(rental Rental, location string, occurredAt time.Time) RentalReturnScheduled {
	return RentalReturnScheduled{
		EventType:   RentalReturnScheduledEventType,
		RentalID:    rental.ID,
		TitleID:     rental.TitleID,
		UserID:      rental.UserID,
		Tenant:      rental.Tenant,
		Location:    location,
		Description: RentalReturnScheduledDescription,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RentalReturnScheduled) IsEventType() string {
	return RentalReturnScheduledEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalReturnScheduled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalReturnScheduled) ForRental() RentalIDString {
	return e.RentalID
}
