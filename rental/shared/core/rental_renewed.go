package core

import (
	"time"
)

// RentalRenewedEventType is the event type identifier.
const RentalRenewedEventType = "RentalRenewed"

// RentalRenewed represents the user extending a delivered rental by another RentalPeriod.
// It is not a status transition and does not add a tracking entry.
type RentalRenewed struct {
	EventType  EventTypeString
	RentalID   RentalIDString
	TitleID    TitleIDString
	UserID     UserIDString
	Tenant     TenantString
	DueDate    time.Time
	OccurredAt OccurredAtTS
}

// BuildRentalRenewed creates a new RentalRenewed event moving the due date of the rental by RentalPeriod.
func BuildRentalRenewed(rental Rental, occurredAt time.Time) RentalRenewed {
	return RentalRenewed{
		EventType:  RentalRenewedEventType,
		RentalID:   rental.ID,
		TitleID:    rental.TitleID,
		UserID:     rental.UserID,
		Tenant:     rental.Tenant,
		DueDate:    rental.DueDate.Add(RentalPeriod),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RentalRenewed) IsEventType() string {
	return RentalRenewedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalRenewed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalRenewed) ForRental() RentalIDString {
	return e.RentalID
}
