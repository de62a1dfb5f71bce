package store

import (
	"database/sql"
	"errors"
	"time"

	"copydesk/internal/content"
)

// timeLayout is fixed width and always UTC so stored timestamps compare
// correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var itemColumns = []string{
	"id", "title", "status", "author_id", "editor_id", "assigned_to",
	"published_at", "scheduled_for", "created_at", "updated_at",
}

var recordColumns = []string{
	"id", "article_id", "seq", "from_status", "to_status",
	"actor_id", "actor_name", "actor_role", "reason", "feedback", "created_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(scanner rowScanner) (*content.Item, error) {
	var (
		id           string
		title        sql.NullString
		statusStr    string
		authorID     sql.NullString
		editorID     sql.NullString
		assignedTo   sql.NullString
		publishedRaw sql.NullString
		scheduledRaw sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&title,
		&statusStr,
		&authorID,
		&editorID,
		&assignedTo,
		&publishedRaw,
		&scheduledRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &content.Item{
		ID:           id,
		Title:        title.String,
		Status:       content.Status(statusStr),
		AuthorID:     authorID.String,
		EditorID:     editorID.String,
		AssignedTo:   assignedTo.String,
		PublishedAt:  parseNullableTime(publishedRaw),
		ScheduledFor: parseNullableTime(scheduledRaw),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func scanRecord(scanner rowScanner) (content.TransitionRecord, error) {
	var (
		record     content.TransitionRecord
		fromStatus string
		toStatus   string
		actorName  sql.NullString
		reason     sql.NullString
		feedback   sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(
		&record.ID,
		&record.ArticleID,
		&record.Seq,
		&fromStatus,
		&toStatus,
		&record.ActorID,
		&actorName,
		&record.ActorRole,
		&reason,
		&feedback,
		&createdRaw,
	); err != nil {
		return content.TransitionRecord{}, err
	}
	record.FromStatus = content.Status(fromStatus)
	record.ToStatus = content.Status(toStatus)
	record.ActorName = actorName.String
	record.Reason = reason.String
	record.Feedback = feedback.String
	if created, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = created
	}
	return record, nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func parseNullableTime(raw sql.NullString) *time.Time {
	if !raw.Valid {
		return nil
	}
	parsed, err := parseTimeString(raw.String)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func statusStrings(statuses []content.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, string(status))
	}
	return out
}
