package board

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToastKind is the style of a toast message
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
	ToastDelete  ToastKind = "delete"
)

// DefaultToastDuration is how long a toast stays visible
const DefaultToastDuration = 5 * time.Second

// Toast is a transient message shown after an action
type Toast struct {
	ID        string
	Text      string
	Kind      ToastKind
	ExpiresAt time.Time
}

// Toasts keeps the visible toast messages. Expired toasts drop out on read.
type Toasts struct {
	mu       sync.Mutex
	items    []Toast
	duration time.Duration
	now      func() time.Time
}

// NewToasts creates a toast list whose entries live for d
func NewToasts(d time.Duration) *Toasts {
	if d <= 0 {
		d = DefaultToastDuration
	}
	return &Toasts{duration: d, now: time.Now}
}

// Show adds a toast and returns its id
func (t *Toasts) Show(text string, kind ToastKind) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	toast := Toast{
		ID:        uuid.NewString(),
		Text:      text,
		Kind:      kind,
		ExpiresAt: t.now().Add(t.duration),
	}
	t.items = append(t.items, toast)
	return toast.ID
}

// Dismiss removes a toast before it expires
func (t *Toasts) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, toast := range t.items {
		if toast.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the toasts that have not expired, oldest first
func (t *Toasts) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	kept := t.items[:0]
	for _, toast := range t.items {
		if now.Before(toast.ExpiresAt) {
			kept = append(kept, toast)
		}
	}
	t.items = kept
	return append([]Toast(nil), kept...)
}

// Latest returns the newest active toast
func (t *Toasts) Latest() (Toast, bool) {
	active := t.Active()
	if len(active) == 0 {
		return Toast{}, false
	}
	return active[len(active)-1], true
}
