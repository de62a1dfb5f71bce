package content

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status represents the editorial lifecycle stage of an item.
type Status string

const (
	StatusIngestionPending Status = "ingestion_pending"
	StatusDraft            Status = "draft"
	StatusReview           Status = "review"
	StatusChangesRequested Status = "changes_requested"
	StatusRevised          Status = "revised"
	StatusApproved         Status = "approved"
	StatusPublished        Status = "published"
	StatusScheduled        Status = "scheduled"
	StatusArchived         Status = "archived"
	StatusRejected         Status = "rejected"
)

var allStatuses = []Status{
	StatusIngestionPending,
	StatusDraft,
	StatusReview,
	StatusChangesRequested,
	StatusRevised,
	StatusApproved,
	StatusPublished,
	StatusScheduled,
	StatusArchived,
	StatusRejected,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts user input into a Status. Hyphens and spaces are
// accepted in place of underscores.
func ParseStatus(value string) (Status, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	status := Status(normalized)
	if _, ok := statusSet[status]; ok {
		return status, true
	}
	return "", false
}

// MustParseStatus parses value or returns an error naming the valid options.
func MustParseStatus(value string) (Status, error) {
	status, ok := ParseStatus(value)
	if !ok {
		return "", fmt.Errorf("unknown status %q (valid: %s)", value, strings.Join(StatusNames(), ", "))
	}
	return status, nil
}

// StatusNames returns the string form of every status.
func StatusNames() []string {
	names := make([]string, 0, len(allStatuses))
	for _, status := range allStatuses {
		names = append(names, string(status))
	}
	return names
}

// Valid reports whether the status is a member of the fixed set.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

var titleCaser = cases.Title(language.English)

// Label returns a display form such as "Changes Requested".
func (s Status) Label() string {
	if s == "" {
		return "Unknown"
	}
	return titleCaser.String(strings.ReplaceAll(string(s), "_", " "))
}

// Phrase describes an item sitting in this status, for user-facing messages.
func (s Status) Phrase() string {
	switch s {
	case StatusIngestionPending:
		return "an item pending ingestion"
	case StatusDraft:
		return "a draft item"
	case StatusReview:
		return "an item in review"
	case StatusChangesRequested:
		return "an item awaiting changes"
	case StatusRevised:
		return "a revised item"
	case StatusApproved:
		return "an approved item"
	case StatusPublished:
		return "a published item"
	case StatusScheduled:
		return "a scheduled item"
	case StatusArchived:
		return "an archived item"
	case StatusRejected:
		return "a rejected item"
	default:
		return "an item with unknown status"
	}
}

// Verb names the action of moving from one status to another, such as
// "publish" or "unpublish".
func Verb(from, to Status) string {
	switch to {
	case StatusDraft:
		switch from {
		case StatusPublished:
			return "unpublish"
		case StatusArchived:
			return "reopen"
		case StatusIngestionPending:
			return "ingest"
		}
		return "return to draft"
	case StatusReview:
		if from == StatusRevised {
			return "resubmit"
		}
		return "submit for review"
	case StatusChangesRequested:
		return "request changes on"
	case StatusRevised:
		return "revise"
	case StatusApproved:
		return "approve"
	case StatusPublished:
		return "publish"
	case StatusScheduled:
		return "schedule"
	case StatusArchived:
		return "archive"
	case StatusRejected:
		return "reject"
	case StatusIngestionPending:
		return "queue for ingestion"
	}
	return "move"
}
