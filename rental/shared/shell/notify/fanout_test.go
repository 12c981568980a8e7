package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
	"github.com/onelib/rentalengine/rental/shared/shell/notify"
)

func Test_Fanout_DeliversToEverySink_BeforeClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	// arrange
	first := notify.NewInbox()
	second := notify.NewInbox()
	fanout := notify.NewFanout([]shell.NotificationSink{first, second})

	// act
	for range 10 {
		fanout.Enqueue(context.Background(), "u-1", "hello", core.NotificationInfo)
	}
	fanout.Close()

	// assert
	assert.Len(t, first.List("u-1"), 10)
	assert.Len(t, second.List("u-1"), 10)
}

func Test_Fanout_DropsNotifications_AfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	inbox := notify.NewInbox()
	fanout := notify.NewFanout([]shell.NotificationSink{inbox}, notify.WithBuffer(1))

	fanout.Close()
	fanout.Enqueue(context.Background(), "u-1", "late", core.NotificationInfo)
	fanout.Close()

	assert.Empty(t, inbox.List("u-1"))
}

func Test_Sinks_DeliversSynchronously_InOrder(t *testing.T) {
	// arrange
	first := notify.NewInbox()
	second := notify.NewInbox()
	sinks := notify.Sinks{first, second}

	// act
	sinks.Enqueue(context.Background(), "u-1", "hello", core.NotificationSuccess)

	// assert
	assert.Len(t, first.List("u-1"), 1)
	assert.Len(t, second.List("u-1"), 1)
}
