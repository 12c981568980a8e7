package core

import (
	"time"
)

// RentalDeliveredEventType is the event type identifier.
const RentalDeliveredEventType = "RentalDelivered"

// RentalDeliveredDescription is the tracking description of the event.
const RentalDeliveredDescription = "Delivered to the member"

// RentalDelivered represents that the copy of a dispatched rental reached the user.
type RentalDelivered struct {
	EventType   EventTypeString
	RentalID    RentalIDString
	TitleID     TitleIDString
	UserID      UserIDString
	Tenant      TenantString
	Location    string
	Description string
	OccurredAt  OccurredAtTS
}

// BuildRentalDelivered creates a new RentalDelivered event for the given rental.
func BuildRentalDelivered(rental Rental, location string, occurredAt time.Time) RentalDelivered {
	return RentalDelivered{
		EventType:   RentalDeliveredEventType,
		RentalID:    rental.ID,
		TitleID:     rental.TitleID,
		UserID:      rental.UserID,
		Tenant:      rental.Tenant,
		Location:    location,
		Description: RentalDeliveredDescription,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RentalDelivered) IsEventType() string {
	return RentalDeliveredEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalDelivered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalDelivered) ForRental() RentalIDString {
	return e.RentalID
}
