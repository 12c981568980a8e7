package core

import (
	"time"
)

// RentalApprovedEventType is the event type identifier.
const RentalApprovedEventType = "RentalApproved"

// RentalApprovedDescription is the tracking description of the event.
const RentalApprovedDescription = "Approved and issued by the library"

// RentalApproved represents a librarian confirming a pending rental.
// The copy is issued at OccurredAt, due RentalPeriod later, and the hold no longer expires.
type RentalApproved struct {
	EventType   EventTypeString
	RentalID    RentalIDString
	TitleID     TitleIDString
	UserID      UserIDString
	Tenant      TenantString
	DueDate     time.Time
	Location    string
	Description string
	OccurredAt  OccurredAtTS
}

// BuildRentalApproved creates a new RentalApproved event for the given rental.
func BuildRentalApproved(rental Rental, location string, occurredAt time.Time) RentalApproved {
	issuedAt := ToOccurredAt(occurredAt)

	return RentalApproved{
		EventType:   RentalApprovedEventType,
		RentalID:    rental.ID,
		TitleID:     rental.TitleID,
		UserID:      rental.UserID,
		Tenant:      rental.Tenant,
		DueDate:     issuedAt.Add(RentalPeriod),
		Location:    location,
		Description: RentalApprovedDescription,
		OccurredAt:  issuedAt,
	}
}

// IsEventType returns the event type identifier.
func (e RentalApproved) IsEventType() string {
	return RentalApprovedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RentalApproved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// ForRental returns the rental the event belongs to.
func (e RentalApproved) ForRental() RentalIDString {
	return e.RentalID
}
