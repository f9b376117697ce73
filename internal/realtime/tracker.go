package realtime

import (
	"log"
	"sync"

	"homewire/internal/model"
)

// Sender is the slice of Handle the tracker needs; narrowed for
// testability.
type Sender interface {
	Healthy() bool
	Send(v any) error
}

// Tracker owns the notification read-state lifecycle for one user's
// notification channel: a bounded most-recent-first visible set, optimistic
// dismissal over the socket while it is open, and a request/response
// fallback while it is not.
type Tracker struct {
	capacity int
	fallback *Fallback

	mu      sync.Mutex
	channel Sender
	visible []model.Notification
}

// NewTracker creates a tracker showing at most capacity notifications.
// fallback may be nil, in which case dismiss is socket-only.
func NewTracker(capacity int, fallback *Fallback) *Tracker {
	if capacity <= 0 {
		capacity = 5
	}
	return &Tracker{capacity: capacity, fallback: fallback}
}

// Bind attaches the notification channel's handle. Until bound (or while
// the channel is unhealthy) dismissal goes through the fallback.
func (t *Tracker) Bind(ch Sender) {
	t.mu.Lock()
	t.channel = ch
	t.mu.Unlock()
}

// Push prepends a newly arrived notification. Duplicate ids are ignored;
// entries beyond the cap fall off the end (they still exist server-side).
func (t *Tracker) Push(n model.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, v := range t.visible {
		if v.ID == n.ID {
			return
		}
	}
	t.visible = append([]model.Notification{n}, t.visible...)
	if len(t.visible) > t.capacity {
		t.visible = t.visible[:t.capacity]
	}
}

// Replace swaps the visible set for a freshly fetched list, most recent
// first as the server returns it. Used by the polling path.
func (t *Tracker) Replace(ns []model.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(ns) > t.capacity {
		ns = ns[:t.capacity]
	}
	t.visible = make([]model.Notification, len(ns))
	copy(t.visible, ns)
}

// Visible returns a copy of the current visible set.
func (t *Tracker) Visible() []model.Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Notification, len(t.visible))
	copy(out, t.visible)
	return out
}

// Dismiss marks one notification read. With the channel open the mark_read
// frame is sent and the entry removed immediately, without waiting for an
// ack. Otherwise the REST fallback is tried and the entry removed only on
// success. Failures are logged and leave the entry in place so the action
// can simply be retried.
func (t *Tracker) Dismiss(id string) {
	t.mu.Lock()
	ch := t.channel
	t.mu.Unlock()

	if ch != nil && ch.Healthy() {
		if err := ch.Send(model.MarkRead{Type: model.ControlMarkRead, NotificationID: id}); err == nil {
			t.remove(id)
			return
		}
		// Fall through to the request/response path.
	}

	if t.fallback == nil {
		log.Printf("[notifications] dismiss %s dropped: channel down and no fallback", id)
		return
	}
	if err := t.fallback.MarkRead(id); err != nil {
		log.Printf("[notifications] dismiss %s failed: %v", id, err)
		return
	}
	t.remove(id)
}

func (t *Tracker) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, v := range t.visible {
		if v.ID == id {
			t.visible = append(t.visible[:i], t.visible[i+1:]...)
			return
		}
	}
}
