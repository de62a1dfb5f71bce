package testsupport

import (
	"context"
	"sync"

	"copydesk/internal/notifications"
)

// Notification is one call captured by RecordingNotifier.
type Notification struct {
	Event   notifications.Event
	Payload notifications.Payload
}

// RecordingNotifier captures published events. Err, when set, is returned
// from every Publish call after recording.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []Notification
	Err    error
}

func (r *RecordingNotifier) Publish(_ context.Context, event notifications.Event, payload notifications.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Notification{Event: event, Payload: payload})
	return r.Err
}

// Events returns a copy of the recorded notifications.
func (r *RecordingNotifier) Events() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.events...)
}

// Count returns how many times the given event was published.
func (r *RecordingNotifier) Count(event notifications.Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, evt := range r.events {
		if evt.Event == event {
			n++
		}
	}
	return n
}
