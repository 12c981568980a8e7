package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/onelib/rentalengine/rental/shared/core"
)

// Inbox keeps the notifications of every user in memory.
type Inbox struct {
	mu     sync.RWMutex
	byUser map[core.UserIDString][]core.Notification
	now    func() time.Time
}

// NewInbox creates an empty Inbox.
func NewInbox() *Inbox {
	return &Inbox{
		byUser: make(map[core.UserIDString][]core.Notification),
		now:    time.Now,
	}
}

// Enqueue stores an unread notification for the user.
func (i *Inbox) Enqueue(_ context.Context, userID core.UserIDString, message string, kind core.NotificationType) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.byUser[userID] = append(i.byUser[userID], core.Notification{
		UserID:    userID,
		Message:   message,
		Type:      kind,
		Timestamp: i.now().UTC(),
	})
}

// List returns the notifications of the user, newest first.
func (i *Inbox) List(userID core.UserIDString) []core.Notification {
	i.mu.RLock()
	defer i.mu.RUnlock()

	list := slices.Clone(i.byUser[userID])
	slices.Reverse(list)

	return list
}

// UnreadCount returns how many notifications of the user are unread.
func (i *Inbox) UnreadCount(userID core.UserIDString) int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	unread := 0
	for _, n := range i.byUser[userID] {
		if !n.IsRead {
			unread++
		}
	}

	return unread
}

// MarkAllRead marks every notification of the user as read and returns how many changed.
func (i *Inbox) MarkAllRead(userID core.UserIDString) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	changed := 0
	for idx := range i.byUser[userID] {
		if !i.byUser[userID][idx].IsRead {
			i.byUser[userID][idx].IsRead = true
			changed++
		}
	}

	return changed
}
