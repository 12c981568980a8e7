package core

import (
	"fmt"
	"time"
)

// NotificationType classifies a Notification for rendering.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is a message for one user. Delivery and read-state belong to the notification sink.
type Notification struct {
	UserID    UserIDString     `json:"userId"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"isRead"`
	Timestamp time.Time        `json:"timestamp"`
}

// TransitionNotice returns the user notification for an applied transition.
// ok is false for transitions that are silent: request_return, reject and expire.
func TransitionNotice(rental Rental, action Action) (message string, kind NotificationType, ok bool) {
	switch action {
	case ActionApprove:
		return fmt.Sprintf("Your rental of %s was approved, due on %s.", rental.TitleID, rental.DueDate.Format(time.DateOnly)),
			NotificationSuccess, true
	case ActionDispatch:
		return fmt.Sprintf("Your rental of %s is on its way.", rental.TitleID), NotificationInfo, true
	case ActionDeliver:
		return fmt.Sprintf("Your rental of %s was delivered. Enjoy reading!", rental.TitleID), NotificationSuccess, true
	case ActionScheduleReturn:
		return fmt.Sprintf("A return pickup for %s was scheduled.", rental.TitleID), NotificationInfo, true
	case ActionConfirmReturn:
		return fmt.Sprintf("The library received %s back. Thank you!", rental.TitleID), NotificationSuccess, true
	default:
		return "", "", false
	}
}
