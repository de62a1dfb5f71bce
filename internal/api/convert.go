package api

import (
	"sort"
	"time"

	"copydesk/internal/content"
	"copydesk/internal/workflow"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// FromItem converts a stored article to its API representation.
func FromItem(item *content.Item) Article {
	if item == nil {
		return Article{}
	}
	return Article{
		ID:           item.ID,
		Title:        item.Title,
		Status:       string(item.Status),
		StatusLabel:  item.Status.Label(),
		AuthorID:     item.AuthorID,
		EditorID:     item.EditorID,
		AssignedTo:   item.AssignedTo,
		PublishedAt:  formatTimePtr(item.PublishedAt),
		ScheduledFor: formatTimePtr(item.ScheduledFor),
		CreatedAt:    formatTime(item.CreatedAt),
		UpdatedAt:    formatTime(item.UpdatedAt),
	}
}

// FromItems converts a slice of articles. The result is never nil.
func FromItems(items []*content.Item) []Article {
	out := make([]Article, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// FromRecord converts a ledger record.
func FromRecord(record content.TransitionRecord) TransitionRecord {
	return TransitionRecord{
		ID:         record.ID,
		ArticleID:  record.ArticleID,
		Seq:        record.Seq,
		FromStatus: string(record.FromStatus),
		ToStatus:   string(record.ToStatus),
		ActorID:    record.ActorID,
		ActorName:  record.ActorName,
		ActorRole:  record.ActorRole,
		Reason:     record.Reason,
		Feedback:   record.Feedback,
		CreatedAt:  formatTime(record.CreatedAt),
	}
}

// FromRecords converts a ledger slice. The result is never nil.
func FromRecords(records []content.TransitionRecord) []TransitionRecord {
	out := make([]TransitionRecord, 0, len(records))
	for _, record := range records {
		out = append(out, FromRecord(record))
	}
	return out
}

// FromPage converts a workflow page.
func FromPage(page workflow.ArticlePage) ArticleList {
	return ArticleList{
		Items: FromItems(page.Items),
		Pagination: Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
			HasNext:    page.Page < page.TotalPages,
			HasPrev:    page.Page > 1,
		},
		Total: page.Total,
	}
}

// FromStats converts workflow statistics. Map keys are status strings.
func FromStats(stats workflow.Stats) Stats {
	out := Stats{
		ByStatus:         statusCounts(stats.ByStatus),
		TransitionsTo:    statusCounts(stats.TransitionsTo),
		ByActor:          make([]ActorStats, 0, len(stats.ByActor)),
		TotalItems:       stats.TotalItems,
		TotalTransitions: stats.TotalTransitions,
		GeneratedAt:      formatTime(stats.GeneratedAt),
	}
	for _, entry := range stats.ByActor {
		out.ByActor = append(out.ByActor, ActorStats{
			ActorID:   entry.ActorID,
			ActorName: entry.ActorName,
			ActorRole: entry.ActorRole,
			Count:     entry.Count,
		})
	}
	return out
}

func statusCounts(in map[content.Status]int) map[string]int {
	out := make(map[string]int, len(in))
	for status, count := range in {
		out[string(status)] = count
	}
	return out
}

// FromReconcileReport converts a sweep report.
func FromReconcileReport(report workflow.ReconcileReport) ReconcileReport {
	out := ReconcileReport{
		Published:  append([]string{}, report.Published...),
		Errors:     make([]ReconcileFailure, 0, len(report.Errors)),
		Skipped:    append([]string{}, report.Skipped...),
		StartedAt:  formatTime(report.StartedAt),
		DurationMs: report.Duration.Milliseconds(),
	}
	for _, failure := range report.Errors {
		out.Errors = append(out.Errors, ReconcileFailure{
			ArticleID: failure.ArticleID,
			Kind:      string(failure.Kind),
			Message:   failure.Message,
		})
	}
	return out
}

// FromLedgerReport converts a verification report, sorted by article ID.
func FromLedgerReport(report workflow.LedgerReport) LedgerReport {
	out := LedgerReport{Checked: report.Checked, Issues: make([]LedgerIssue, 0, len(report.Issues))}
	for _, issue := range report.Issues {
		out.Issues = append(out.Issues, LedgerIssue{
			ArticleID: issue.ArticleID,
			Stored:    string(issue.Stored),
			Replayed:  string(issue.Replayed),
			Detail:    issue.Detail,
		})
	}
	sort.Slice(out.Issues, func(i, j int) bool { return out.Issues[i].ArticleID < out.Issues[j].ArticleID })
	return out
}

// StatusStrings converts statuses to their wire values.
func StatusStrings(statuses []content.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, string(status))
	}
	return out
}
