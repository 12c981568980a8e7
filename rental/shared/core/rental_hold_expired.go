package core

import (
	"time"
)

// RentalHoldExpiredEventType is the event type identifier.
const RentalHoldExpiredEventType = "RentalHoldExpired"

// RentalHoldExpiredDescription is the tracking description of the event.
const RentalHoldExpiredDescription = "Hold expired before confirmation, request cancelled"

// RentalHoldExpired represents the hold sweep cancelling a pending rental whose hold ran out. The held copy is released.
type RentalHoldExpired struct {
	EventType     EventTypeString
	RentalID      RentalIDString
	TitleID       TitleIDString
	UserID        UserIDString
	Tenant        TenantString
	HoldExpiresAt time.Time
	Location      string
	Description   string
	OccurredAt    OccurredAtTS
}

// BuildRentalHoldExpired creates a new RentalHoldExpired event for the given rental.
func BuildRentalHoldExpired(rental Rental, location string, occurredAt time.Time) RentalHoldExpired {
	return RentalHoldExpired{
		EventType:     RentalHoldExpiredEventType,
		RentalID:      rental.ID,
		TitleID:       rental.TitleID,
		UserID:        rental.UserID,
		Tenant:        rental.Tenant,
		HoldExpiresAt: rental.HoldExpiresAt,
		Location:      location,
		Description:   RentalHoldExpiredDescription,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RentalHoldExpired) IsEventType() string {
	return RentalHoldExpiredEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalHoldExpired) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalHoldExpired) ForRental() RentalIDString {
	return e.RentalID
}
