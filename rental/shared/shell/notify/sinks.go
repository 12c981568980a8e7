package notify

import (
	"context"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

// Sinks delivers to each of its sinks in order, on the caller's goroutine.
// Put the Inbox first so a user sees the notification as soon as the command returns.
type Sinks []shell.NotificationSink

func (s Sinks) Enqueue(ctx context.Context, userID core.UserIDString, message string, kind core.NotificationType) {
	for _, sink := range s {
		sink.Enqueue(ctx, userID, message, kind)
	}
}
