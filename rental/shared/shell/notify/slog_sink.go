package notify

import (
	"context"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

const logMsgNotification = "notification enqueued"

// SlogSink writes every notification as one log line.
type SlogSink struct {
	logger shell.Logger
}

// NewSlogSink creates a SlogSink on the given logger.
func NewSlogSink(logger shell.Logger) SlogSink {
	return SlogSink{logger: logger}
}

// Enqueue logs the notification at info level.
func (s SlogSink) Enqueue(_ context.Context, userID core.UserIDString, message string, kind core.NotificationType) {
	s.logger.Info(logMsgNotification, logAttrUserID, userID, logAttrType, string(kind), logAttrMessage, message)
}
