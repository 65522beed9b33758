package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotificationKind selects how a notification is coloured.
type NotificationKind int

const (
	NotifyInfo NotificationKind = iota
	NotifySuccess
	NotifyError
)

func (k NotificationKind) String() string {
	switch k {
	case NotifySuccess:
		return "success"
	case NotifyError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a user-facing message that dismisses itself.
type Notification struct {
	ID        string
	Kind      NotificationKind
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notifier keeps the active notifications. It is safe for concurrent use.
type Notifier struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notification
}

// NewNotifier creates a Notifier whose notifications live for ttl.
func NewNotifier(ttl time.Duration, now func() time.Time) *Notifier {
	if now == nil {
		now = time.Now
	}
	return &Notifier{ttl: ttl, now: now}
}

// Push adds a notification and returns it.
func (n *Notifier) Push(kind NotificationKind, msg string) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	note := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   msg,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}
	n.items = append(n.items, note)
	return note
}

// Active drops expired notifications and returns the rest, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	kept := n.items[:0]
	for _, note := range n.items {
		if now.Before(note.ExpiresAt) {
			kept = append(kept, note)
		}
	}
	n.items = kept
	return append([]Notification(nil), kept...)
}

// Dismiss removes a notification early.
func (n *Notifier) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, note := range n.items {
		if note.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every notification and reports how many there were.
func (n *Notifier) Clear() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := len(n.items)
	n.items = nil
	return count
}
