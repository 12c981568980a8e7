package core

import (
	"time"
)

// TrackingEntry is one immutable line in the tracking history of a Rental.
type TrackingEntry struct {
	Status      Status    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

// Rental is a rental record as projected from its events.
// Optional dates are zero until the transition that sets them has happened.
type Rental struct {
	ID              RentalIDString  `json:"id"`
	TitleID         TitleIDString   `json:"titleId"`
	UserID          UserIDString    `json:"userId"`
	Tenant          TenantString    `json:"libraryPartner"`
	RentPrice       int             `json:"rentPrice"`
	Status          Status          `json:"status"`
	RequestDate     time.Time       `json:"requestDate"`
	HoldExpiresAt   time.Time       `json:"holdExpiresAt,omitzero"`
	IssueDate       time.Time       `json:"issueDate,omitzero"`
	DueDate         time.Time       `json:"dueDate,omitzero"`
	ReturnDate      time.Time       `json:"returnDate,omitzero"`
	TrackingHistory []TrackingEntry `json:"trackingHistory"`
}

// Exists reports whether at least the creation event was projected.
func (r Rental) Exists() bool {
	return r.ID != ""
}

// IsActive reports whether the rental is not in a terminal status.
func (r Rental) IsActive() bool {
	return r.Exists() && !r.Status.IsTerminal()
}

// HoldExpired reports whether the rental is pending and its hold ran out before now.
func (r Rental) HoldExpired(now time.Time) bool {
	return r.Status == StatusPending && !r.HoldExpiresAt.IsZero() && r.HoldExpiresAt.Before(now)
}

// IsOverdue reports whether the rental is delivered and past its due date.
func (r Rental) IsOverdue(now time.Time) bool {
	return r.Status == StatusDelivered && now.After(r.DueDate)
}

// DisplayStatus returns StatusOverdue for an overdue rental and the stored status otherwise.
func (r Rental) DisplayStatus(now time.Time) Status {
	if r.IsOverdue(now) {
		return StatusOverdue
	}

	return r.Status
}

// LastTrackingEntry returns the newest tracking entry, ok is false for a rental that does not exist.
func (r Rental) LastTrackingEntry() (entry TrackingEntry, ok bool) {
	if len(r.TrackingHistory) == 0 {
		return TrackingEntry{}, false
	}

	return r.TrackingHistory[len(r.TrackingHistory)-1], true
}

func (r *Rental) track(status Status, at time.Time, location, description string) {
	r.Status = status
	r.TrackingHistory = append(r.TrackingHistory, TrackingEntry{
		Status:      status,
		Timestamp:   at,
		Location:    location,
		Description: description,
	})
}

// apply folds one event into the rental. Events of other rentals must be filtered out by the caller.
func (r *Rental) apply(event DomainEvent) {
	switch e := event.(type) {
	case RentalRequested:
		r.ID = e.RentalID
		r.TitleID = e.TitleID
		r.UserID = e.UserID
		r.Tenant = e.Tenant
		r.RentPrice = e.RentPrice
		r.RequestDate = e.OccurredAt
		r.HoldExpiresAt = e.HoldExpiresAt
		r.TrackingHistory = nil
		r.track(StatusPending, e.OccurredAt, e.Location, e.Description)

	case RentalApproved:
		r.IssueDate = e.OccurredAt
		r.DueDate = e.DueDate
		r.HoldExpiresAt = time.Time{}
		r.track(StatusApproved, e.OccurredAt, e.Location, e.Description)

	case RentalDispatched:
		r.track(StatusDispatched, e.OccurredAt, e.Location, e.Description)

	case RentalDelivered:
		r.track(StatusDelivered, e.OccurredAt, e.Location, e.Description)

	case RentalReturnRequested:
		r.track(StatusReturnRequested, e.OccurredAt, e.Location, e.Description)

	case RentalReturnScheduled:
		r.track(StatusReturnScheduled, e.OccurredAt, e.Location, e.Description)

	case RentalReturned:
		r.ReturnDate = e.OccurredAt
		r.track(StatusReturned, e.OccurredAt, e.Location, e.Description)

	case RentalRejected:
		r.HoldExpiresAt = time.Time{}
		r.track(StatusRejected, e.OccurredAt, e.Location, e.Description)

	case RentalHoldExpired:
		r.track(StatusCancelled, e.OccurredAt, e.Location, e.Description)

	case RentalRenewed:
		r.DueDate = e.DueDate
	}
}

// ProjectRental folds the history into the rental with the given id.
// The result does not exist (see Rental.Exists) if the history holds no RentalRequested for it.
func ProjectRental(history DomainEvents, rentalID RentalIDString) Rental {
	rental := Rental{}

	for _, event := range history {
		if event.ForRental() != rentalID {
			continue
		}

		if _, isCreation := event.(RentalRequested); !isCreation && !rental.Exists() {
			continue
		}

		rental.apply(event)
	}

	return rental
}

// ProjectRentals folds the history into all rentals it contains, in order of their creation.
func ProjectRentals(history DomainEvents) []Rental {
	index := make(map[RentalIDString]int)
	rentals := make([]Rental, 0)

	for _, event := range history {
		i, known := index[event.ForRental()]

		if !known {
			if _, isCreation := event.(RentalRequested); !isCreation {
				continue
			}

			rentals = append(rentals, Rental{})
			i = len(rentals) - 1
			index[event.ForRental()] = i
		}

		rentals[i].apply(event)
	}

	return rentals
}

// Apply returns a copy of the rental with the event folded in.
func (r Rental) Apply(event DomainEvent) Rental {
	r.TrackingHistory = append([]TrackingEntry(nil), r.TrackingHistory...)
	r.apply(event)

	return r
}

// RentalView is a Rental as shown at a point in time, with the computed overdue state.
type RentalView struct {
	Rental
	Overdue       bool   `json:"overdue"`
	DisplayStatus Status `json:"displayStatus"`
}

// ViewAt builds the RentalView of the rental at now.
func (r Rental) ViewAt(now time.Time) RentalView {
	return RentalView{
		Rental:        r,
		Overdue:       r.IsOverdue(now),
		DisplayStatus: r.DisplayStatus(now),
	}
}
