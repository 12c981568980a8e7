package notify

import (
	"context"
	"sync"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

const (
	defaultFanoutBuffer = 256

	logMsgFanoutDropped = "notification dropped, fanout buffer full or closed"
)

type envelope struct {
	userID  core.UserIDString
	message string
	kind    core.NotificationType
}

// Fanout delivers every notification to all of its sinks from one background worker,
// so a slow sink never blocks the caller. Call Close to drain and stop the worker.
type Fanout struct {
	sinks  []shell.NotificationSink
	logger shell.Logger
	queue  chan envelope
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// FanoutOption configures a Fanout.
type FanoutOption func(*Fanout)

// WithLogger logs dropped notifications.
func WithLogger(logger shell.Logger) FanoutOption {
	return func(f *Fanout) {
		f.logger = logger
	}
}

// WithBuffer sets how many notifications may wait for the worker.
func WithBuffer(size int) FanoutOption {
	return func(f *Fanout) {
		if size > 0 {
			f.queue = make(chan envelope, size)
		}
	}
}

// NewFanout creates a Fanout over sinks and starts its worker.
func NewFanout(sinks []shell.NotificationSink, opts ...FanoutOption) *Fanout {
	f := &Fanout{
		sinks: sinks,
		queue: make(chan envelope, defaultFanoutBuffer),
		done:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(f)
	}

	go f.run()

	return f
}

// Enqueue hands the notification to the worker. It never blocks; when the buffer is full
// or the Fanout is closed, the notification is dropped.
func (f *Fanout) Enqueue(_ context.Context, userID core.UserIDString, message string, kind core.NotificationType) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.closed {
		select {
		case f.queue <- envelope{userID: userID, message: message, kind: kind}:
			return
		default:
		}
	}

	if f.logger != nil {
		f.logger.Warn(logMsgFanoutDropped, logAttrUserID, userID)
	}
}

// Close stops accepting notifications, delivers the buffered ones and waits for the worker.
func (f *Fanout) Close() {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.queue)
	}
	f.mu.Unlock()

	<-f.done
}

func (f *Fanout) run() {
	defer close(f.done)

	for env := range f.queue {
		for _, sink := range f.sinks {
			sink.Enqueue(context.Background(), env.userID, env.message, env.kind)
		}
	}
}
