package core

import (
	"time"
)

// RentalIDString represents a rental (order) identifier.
type RentalIDString = string

// TitleIDString represents a catalog title identifier.
type TitleIDString = string

// UserIDString represents an opaque user identifier handed over by the identity provider.
type UserIDString = string

// TenantString represents the name of the partner library fulfilling a rental.
type TenantString = string

// EventTypeString represents an event type identifier.
type EventTypeString = string

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

const (
	// HoldPeriod is how long a pending rental holds its copy before the sweep cancels it.
	HoldPeriod = 48 * time.Hour

	// RentalPeriod is the loan period granted on approval and on every renewal.
	RentalPeriod = 14 * 24 * time.Hour
)

// Location tags of tracking entries.
const (
	LocationWeb           = "Web"
	LocationSystemUpdate  = "System Update"
	LocationUserDashboard = "User Dashboard"
	LocationSystem        = "System"
)

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision,
// which is what survives a roundtrip through Postgres.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
