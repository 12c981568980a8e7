package renewrental

import (
	"time"

	"github.com/onelib/rentalengine/rental/shared/core"
)

const (
	commandType = "RenewRental"
)

// Command represents the intent of a member to keep a delivered rental for another core.RentalPeriod.
type Command struct {
	RentalID   core.RentalIDString
	UserID     core.UserIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(rentalID core.RentalIDString, userID core.UserIDString, occurredAt time.Time) Command {
	return Command{
		RentalID:   rentalID,
		UserID:     userID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
