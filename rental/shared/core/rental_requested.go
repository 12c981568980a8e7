package core

import (
	"time"
)

// RentalRequestedEventType is the event type identifier.
const RentalRequestedEventType = "RentalRequested"

// RentalRequestedDescription is the tracking description of the event.
const RentalRequestedDescription = "Rental request placed, copy on hold"

// RentalRequested represents a checkout that created a pending rental holding one copy of a title.
// It is the seed entry of every tracking history.
type RentalRequested struct {
	EventType     EventTypeString
	RentalID      RentalIDString
	TitleID       TitleIDString
	UserID        UserIDString
	Tenant        TenantString
	RentPrice     int
	HoldExpiresAt time.Time
	Location      string
	Description   string
	OccurredAt    OccurredAtTS
}

// BuildRentalRequested creates a new RentalRequested event with a hold expiring HoldPeriod after occurredAt.
func BuildRentalRequested(
	rentalID RentalIDString,
	title Title,
	userID UserIDString,
	occurredAt time.Time,
) RentalRequested {

	requestedAt := ToOccurredAt(occurredAt)

	return RentalRequested{
		EventType:     RentalRequestedEventType,
		RentalID:      rentalID,
		TitleID:       title.ID,
		UserID:        userID,
		Tenant:        title.Tenant,
		RentPrice:     title.RentPrice,
		HoldExpiresAt: requestedAt.Add(HoldPeriod),
		Location:      LocationWeb,
		Description:   RentalRequestedDescription,
		OccurredAt:    requestedAt,
	}
}

// IsEventType returns the event type identifier.
func (e RentalRequested) IsEventType() string {
	return RentalRequestedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalRequested) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalRequested) ForRental() RentalIDString {
	return e.RentalID
}
