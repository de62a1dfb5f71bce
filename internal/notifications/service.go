package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"copydesk/internal/config"
)

const userAgent = "Copydesk-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		enabled: map[Event]bool{
			EventTransition:         cfg.Notifications.Transitions,
			EventPublished:          cfg.Notifications.Transitions,
			EventChangesRequested:   cfg.Notifications.Transitions,
			EventAssignment:         cfg.Notifications.Assignments,
			EventReconcileCompleted: cfg.Notifications.Reconciler,
			EventTest:               true,
		},
	}
}

// NewNoop returns a Service that discards every event.
func NewNoop() Service { return noopService{} }

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	enabled  map[Event]bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, data Payload) error {
	if n == nil || !n.enabled[event] {
		return nil
	}
	msg, ok := buildMessage(event, data)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

// buildMessage renders an event. Payload keys:
//
//	transition:          title, from, to, actor, verb
//	published:           title, actor
//	changes_requested:   title, actor, feedback
//	assignment:          title, assignee, actor
//	reconcile_completed: published, errors, skipped
func buildMessage(event Event, data Payload) (payload, bool) {
	title := data.textOr("title", "Untitled")
	switch event {
	case EventTransition:
		verb := data.textOr("verb", "move")
		message := fmt.Sprintf("%s: %s → %s", title, data.textOr("from", "unknown"), data.textOr("to", "unknown"))
		if actor := data.text("actor"); actor != "" {
			message = fmt.Sprintf("%s (%s by %s)", message, verb, actor)
		}
		return payload{
			title:   "Copydesk - Status Changed",
			message: message,
			tags:    []string{"copydesk", "workflow", data.textOr("to", "unknown")},
		}, true
	case EventPublished:
		message := fmt.Sprintf("✅ Published: %s", title)
		if actor := data.text("actor"); actor != "" {
			message = fmt.Sprintf("%s\nBy: %s", message, actor)
		}
		return payload{
			title:   "Copydesk - Published",
			message: message,
			tags:    []string{"copydesk", "published"},
		}, true
	case EventChangesRequested:
		message := fmt.Sprintf("✏️ Changes requested: %s", title)
		if feedback := data.text("feedback"); feedback != "" {
			message = fmt.Sprintf("%s\nFeedback: %s", message, feedback)
		}
		return payload{
			title:    "Copydesk - Changes Requested",
			message:  message,
			tags:     []string{"copydesk", "review", "changes"},
			priority: "high",
		}, true
	case EventAssignment:
		message := fmt.Sprintf("%s assigned to %s", title, data.textOr("assignee", "nobody"))
		if actor := data.text("actor"); actor != "" {
			message = fmt.Sprintf("%s by %s", message, actor)
		}
		return payload{
			title:   "Copydesk - Assignment Changed",
			message: message,
			tags:    []string{"copydesk", "assignment"},
		}, true
	case EventReconcileCompleted:
		published := data.number("published")
		failed := data.number("errors")
		if published == 0 && failed == 0 {
			return payload{}, false
		}
		if failed == 0 {
			return payload{
				title:   "Copydesk - Scheduled Publishing",
				message: fmt.Sprintf("Published %d scheduled item(s)", published),
				tags:    []string{"copydesk", "scheduler", "completed"},
			}, true
		}
		return payload{
			title:    "Copydesk - Scheduled Publishing (with errors)",
			message:  fmt.Sprintf("Scheduled publishing: %d published, %d failed", published, failed),
			tags:     []string{"copydesk", "scheduler", "error"},
			priority: "high",
		}, true
	case EventTest:
		return payload{
			title:    "Copydesk - Test",
			message:  "🧪 Notification system test",
			tags:     []string{"copydesk", "test"},
			priority: "low",
		}, true
	default:
		return payload{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
