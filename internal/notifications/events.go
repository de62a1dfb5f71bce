package notifications

import (
	"fmt"
	"strconv"
	"strings"
)

// Event identifies a notification category.
type Event string

const (
	EventTransition         Event = "transition"
	EventPublished          Event = "published"
	EventChangesRequested   Event = "changes_requested"
	EventAssignment         Event = "assignment"
	EventReconcileCompleted Event = "reconcile_completed"
	EventTest               Event = "test"
)

// Payload carries event specific values. Keys are documented next to the
// message builder that consumes them.
type Payload map[string]any

func (p Payload) text(key string) string {
	if p == nil {
		return ""
	}
	value, ok := p[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func (p Payload) number(key string) int {
	if p == nil {
		return 0
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func (p Payload) textOr(key, fallback string) string {
	if value := p.text(key); value != "" {
		return value
	}
	return fallback
}
