package changerentalstatus

import (
	"time"

	"github.com/onelib/rentalengine/rental/shared/core"
)

const (
	commandType = "ChangeRentalStatus"
)

// Command represents the intent to move a rental through the state machine.
//
// UserID and Tenant scope the command to the actor: when set, the rental must belong to that user or be
// fulfilled by that tenant. A rental outside the scope is reported as NOT_FOUND.
type Command struct {
	RentalID   core.RentalIDString
	Action     core.Action
	UserID     core.UserIDString
	Tenant     core.TenantString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command for a librarian of the tenant.
func BuildCommand(
	rentalID core.RentalIDString,
	action core.Action,
	tenant core.TenantString,
	occurredAt time.Time,
) Command {

	return Command{
		RentalID:   rentalID,
		Action:     action,
		Tenant:     tenant,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// BuildMemberCommand creates a new Command for the member who holds the rental.
func BuildMemberCommand(
	rentalID core.RentalIDString,
	action core.Action,
	userID core.UserIDString,
	occurredAt time.Time,
) Command {

	return Command{
		RentalID:   rentalID,
		Action:     action,
		UserID:     userID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// BuildExpireCommand creates the Command the hold sweep uses. It is not scoped to an actor.
func BuildExpireCommand(rentalID core.RentalIDString, now time.Time) Command {
	return Command{
		RentalID:   rentalID,
		Action:     core.ActionExpire,
		OccurredAt: core.ToOccurredAt(now),
	}
}
