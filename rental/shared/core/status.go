package core

// Status is the stored lifecycle state of a Rental. The set is closed; see the transitions table.
type Status string

const (
	StatusPending         Status = "pending"
	StatusApproved        Status = "approved"
	StatusDispatched      Status = "dispatched"
	StatusDelivered       Status = "delivered"
	StatusReturnRequested Status = "return_requested"
	StatusReturnScheduled Status = "return_scheduled"
	StatusReturned        Status = "returned"
	StatusRejected        Status = "rejected"
	StatusCancelled       Status = "cancelled"
)

// StatusOverdue is never stored. Views derive it from a delivered rental whose due date has passed.
const StatusOverdue Status = "overdue"

// AllStatuses lists the stored statuses in lifecycle order.
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusDispatched,
	StatusDelivered,
	StatusReturnRequested,
	StatusReturnScheduled,
	StatusReturned,
	StatusRejected,
	StatusCancelled,
}

// IsTerminal reports whether no further transition is defined from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusReturned, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// ReleasesStock reports whether reaching s credits the held copy back to the title.
// Every terminal status does.
func (s Status) ReleasesStock() bool {
	return s.IsTerminal()
}

// ParseStatus validates a stored status name.
func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}

	return "", InvalidInput("unknown status %q", s)
}

// Action is an event of the rental state machine, triggered by a librarian, the user or the hold sweep.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionDispatch       Action = "dispatch"
	ActionDeliver        Action = "deliver"
	ActionRequestReturn  Action = "request_return"
	ActionScheduleReturn Action = "schedule_return"
	ActionConfirmReturn  Action = "confirm_return"
	ActionReject         Action = "reject"
	ActionExpire         Action = "expire"

	// ActionRenew moves the due date of a delivered rental. It is not part of the transition table.
	ActionRenew Action = "renew"
)

type transitionKey struct {
	from   Status
	action Action
}

var transitions = map[transitionKey]Status{
	{StatusPending, ActionApprove}:                StatusApproved,
	{StatusApproved, ActionDispatch}:              StatusDispatched,
	{StatusDispatched, ActionDeliver}:             StatusDelivered,
	{StatusDelivered, ActionRequestReturn}:        StatusReturnRequested,
	{StatusReturnRequested, ActionScheduleReturn}: StatusReturnScheduled,
	{StatusReturnScheduled, ActionConfirmReturn}:  StatusReturned,
	{StatusPending, ActionReject}:                 StatusRejected,
	{StatusPending, ActionExpire}:                 StatusCancelled,
}

// NextStatus looks up the transition table. ok is false for every unlisted (status, action) pair.
func NextStatus(from Status, action Action) (next Status, ok bool) {
	next, ok = transitions[transitionKey{from: from, action: action}]
	return next, ok
}

// ParseAction validates an action name coming from outside, e.g. an HTTP path.
// The expire action is reserved for the hold sweep and cannot be parsed.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionApprove, ActionDispatch, ActionDeliver, ActionRequestReturn,
		ActionScheduleReturn, ActionConfirmReturn, ActionReject:
		return a, nil
	default:
		return "", InvalidInput("unknown action %q", s)
	}
}

// Location returns the tracking location tag for the actor behind the action.
func (a Action) Location() string {
	switch a {
	case ActionRequestReturn:
		return LocationUserDashboard
	case ActionExpire:
		return LocationSystem
	default:
		return LocationSystemUpdate
	}
}

// IsLibrarianAction reports whether only a librarian of the fulfilling tenant may trigger the action.
func (a Action) IsLibrarianAction() bool {
	return a != ActionRequestReturn && a != ActionExpire && a != ActionRenew
}
