package api

import "time"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// KindInternal marks failures that are not workflow rule violations.
const KindInternal = "internal"

// Article describes an article in a transport-friendly format.
type Article struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Status       string `json:"status" yaml:"status"`
	StatusLabel  string `json:"statusLabel" yaml:"status_label"`
	AuthorID     string `json:"authorId,omitempty" yaml:"author_id,omitempty"`
	EditorID     string `json:"editorId,omitempty" yaml:"editor_id,omitempty"`
	AssignedTo   string `json:"assignedTo,omitempty" yaml:"assigned_to,omitempty"`
	PublishedAt  string `json:"publishedAt,omitempty" yaml:"published_at,omitempty"`
	ScheduledFor string `json:"scheduledFor,omitempty" yaml:"scheduled_for,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// TransitionRecord is one ledger entry.
type TransitionRecord struct {
	ID         string `json:"id" yaml:"id"`
	ArticleID  string `json:"articleId" yaml:"article_id"`
	Seq        int64  `json:"seq" yaml:"seq"`
	FromStatus string `json:"fromStatus" yaml:"from_status"`
	ToStatus   string `json:"toStatus" yaml:"to_status"`
	ActorID    string `json:"actorId" yaml:"actor_id"`
	ActorName  string `json:"actorName,omitempty" yaml:"actor_name,omitempty"`
	ActorRole  string `json:"actorRole" yaml:"actor_role"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Feedback   string `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	CreatedAt  string `json:"createdAt" yaml:"created_at"`
}

// Actor identifies the caller. Role is a snapshot supplied by the caller.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
}

// TransitionRequest asks to move an article to a new status.
type TransitionRequest struct {
	ArticleID    string     `json:"articleId"`
	ToStatus     string     `json:"toStatus"`
	Actor        Actor      `json:"actor"`
	Reason       string     `json:"reason,omitempty"`
	Feedback     string     `json:"feedback,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
}

// TransitionResponse reports the outcome of a transition.
type TransitionResponse struct {
	Success bool     `json:"success" yaml:"success"`
	Message string   `json:"message" yaml:"message"`
	Kind    string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Item    *Article `json:"item,omitempty" yaml:"item,omitempty"`
}

// AssignRequest asks to change an article's assignee.
type AssignRequest struct {
	ArticleID  string `json:"articleId"`
	AssigneeID string `json:"assigneeId"`
	Actor      Actor  `json:"actor"`
}

// Response is the outcome of an operation without a payload.
type Response struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// CreateArticleRequest asks to create an article in its initial status.
type CreateArticleRequest struct {
	Title      string `json:"title"`
	AuthorID   string `json:"authorId,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
	Status     string `json:"status,omitempty"`
	Actor      Actor  `json:"actor"`
}

// ListOptions pages and filters GetArticlesByStatus. UserID filters by
// author.
type ListOptions struct {
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	UserID     string `json:"userId,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

// Pagination describes the returned page.
type Pagination struct {
	Page       int  `json:"page" yaml:"page"`
	Limit      int  `json:"limit" yaml:"limit"`
	TotalPages int  `json:"totalPages" yaml:"total_pages"`
	HasNext    bool `json:"hasNext" yaml:"has_next"`
	HasPrev    bool `json:"hasPrev" yaml:"has_prev"`
}

// ArticleList wraps a page of articles.
type ArticleList struct {
	Items      []Article  `json:"items" yaml:"items"`
	Pagination Pagination `json:"pagination" yaml:"pagination"`
	Total      int        `json:"total" yaml:"total"`
}

// ActorStats counts ledger records per actor.
type ActorStats struct {
	ActorID   string `json:"actorId" yaml:"actor_id"`
	ActorName string `json:"actorName,omitempty" yaml:"actor_name,omitempty"`
	ActorRole string `json:"actorRole,omitempty" yaml:"actor_role,omitempty"`
	Count     int    `json:"count" yaml:"count"`
}

// Stats is the dashboard summary.
type Stats struct {
	ByStatus         map[string]int `json:"byStatus" yaml:"by_status"`
	TransitionsTo    map[string]int `json:"transitionsTo" yaml:"transitions_to"`
	ByActor          []ActorStats   `json:"byActor" yaml:"by_actor"`
	TotalItems       int            `json:"totalItems" yaml:"total_items"`
	TotalTransitions int            `json:"totalTransitions" yaml:"total_transitions"`
	GeneratedAt      string         `json:"generatedAt" yaml:"generated_at"`
}

// ReconcileFailure is one article a sweep could not publish.
type ReconcileFailure struct {
	ArticleID string `json:"articleId" yaml:"article_id"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Message   string `json:"message" yaml:"message"`
}

// ReconcileReport summarizes a scheduled publication sweep.
type ReconcileReport struct {
	Published  []string           `json:"published" yaml:"published"`
	Errors     []ReconcileFailure `json:"errors" yaml:"errors"`
	Skipped    []string           `json:"skipped" yaml:"skipped"`
	StartedAt  string             `json:"startedAt" yaml:"started_at"`
	DurationMs int64              `json:"durationMs" yaml:"duration_ms"`
}

// LedgerIssue is an article whose status disagrees with its history.
type LedgerIssue struct {
	ArticleID string `json:"articleId" yaml:"article_id"`
	Stored    string `json:"stored" yaml:"stored"`
	Replayed  string `json:"replayed,omitempty" yaml:"replayed,omitempty"`
	Detail    string `json:"detail" yaml:"detail"`
}

// LedgerReport is the outcome of a ledger verification.
type LedgerReport struct {
	Checked int           `json:"checked" yaml:"checked"`
	Issues  []LedgerIssue `json:"issues" yaml:"issues"`
}
