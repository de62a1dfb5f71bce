package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"copydesk/internal/config"
	"copydesk/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventPublished, notifications.Payload{"title": "Example"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		event          notifications.Event
		payload        notifications.Payload
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:  "transition",
			event: notifications.EventTransition,
			payload: notifications.Payload{
				"title": "City budget vote",
				"from":  "draft",
				"to":    "review",
				"verb":  "submit for review",
				"actor": "Ada",
			},
			expectTitle:   "Copydesk - Status Changed",
			expectMessage: "City budget vote: draft → review (submit for review by Ada)",
			expectTags:    "copydesk,workflow,review",
		},
		{
			name:  "published",
			event: notifications.EventPublished,
			payload: notifications.Payload{
				"title": "Harbour reopens",
			},
			expectTitle:   "Copydesk - Published",
			expectMessage: "✅ Published: Harbour reopens",
			expectTags:    "copydesk,published",
		},
		{
			name:  "changes requested",
			event: notifications.EventChangesRequested,
			payload: notifications.Payload{
				"title":    "Rail strike",
				"feedback": "needs a second source",
			},
			expectTitle:    "Copydesk - Changes Requested",
			expectMessage:  "✏️ Changes requested: Rail strike\nFeedback: needs a second source",
			expectTags:     "copydesk,review,changes",
			expectPriority: "high",
		},
		{
			name:  "assignment",
			event: notifications.EventAssignment,
			payload: notifications.Payload{
				"title":    "Election night",
				"assignee": "grace",
				"actor":    "Chief",
			},
			expectTitle:   "Copydesk - Assignment Changed",
			expectMessage: "Election night assigned to grace by Chief",
			expectTags:    "copydesk,assignment",
		},
		{
			name:  "reconcile with errors",
			event: notifications.EventReconcileCompleted,
			payload: notifications.Payload{
				"published": 3,
				"errors":    1,
			},
			expectTitle:    "Copydesk - Scheduled Publishing (with errors)",
			expectMessage:  "Scheduled publishing: 3 published, 1 failed",
			expectTags:     "copydesk,scheduler,error",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Errorf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonoursDisabledCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call for disabled event: %s", r.Header.Get("Title"))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Transitions = false
	cfg.Notifications.Assignments = false
	cfg.Notifications.Reconciler = false

	svc := notifications.NewService(&cfg)
	disabled := []notifications.Event{
		notifications.EventTransition,
		notifications.EventPublished,
		notifications.EventChangesRequested,
		notifications.EventAssignment,
		notifications.EventReconcileCompleted,
		notifications.Event("unknown"),
	}
	for _, event := range disabled {
		if err := svc.Publish(context.Background(), event, notifications.Payload{"title": "ignored"}); err != nil {
			t.Fatalf("expected no error for disabled event %s, got %v", event, err)
		}
	}
}

func TestNtfyServiceSkipsEmptyReconcileRuns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call for empty reconcile run")
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventReconcileCompleted, notifications.Payload{"published": 0}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic locked", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	err := svc.Publish(context.Background(), notifications.EventTest, nil)
	if err == nil {
		t.Fatal("expected error from failing ntfy server")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "topic locked") {
		t.Fatalf("unexpected error text: %v", err)
	}
}
