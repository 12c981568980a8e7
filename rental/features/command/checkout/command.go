package checkout

import (
	"slices"
	"time"

	"github.com/onelib/rentalengine/rental/shared/core"
)

const (
	commandType = "Checkout"
)

// Command represents the intent of a user to rent every title in the cart.
type Command struct {
	UserID          core.UserIDString
	TitleIDs        []core.TitleIDString
	AvailablePoints int
	OccurredAt      core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. Duplicate and empty title ids are dropped, the cart order is kept.
func BuildCommand(
	userID core.UserIDString,
	titleIDs []core.TitleIDString,
	availablePoints int,
	occurredAt time.Time,
) Command {

	unique := make([]core.TitleIDString, 0, len(titleIDs))
	for _, id := range titleIDs {
		if id != "" && !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}

	return Command{
		UserID:          userID,
		TitleIDs:        unique,
		AvailablePoints: availablePoints,
		OccurredAt:      core.ToOccurredAt(occurredAt),
	}
}

// ItemCommand is the part of a checkout that creates the rental of one title.
type ItemCommand struct {
	RentalID   core.RentalIDString
	Title      core.Title
	UserID     core.UserIDString
	OccurredAt core.OccurredAtTS
}
