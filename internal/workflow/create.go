package workflow

import (
	"context"
	"strings"

	"copydesk/internal/access"
	"copydesk/internal/content"
	"copydesk/internal/logging"
	"copydesk/internal/services"
)

// NewArticle describes an article to create.
type NewArticle struct {
	Title      string
	AuthorID   string
	AssignedTo string
	// Status is the initial status: draft (default) or ingestion_pending.
	Status content.Status
}

// Create inserts an article in its initial status. Creation is not a
// transition, so no ledger record is written.
func (e *Engine) Create(ctx context.Context, in NewArticle, actor Actor) (*content.Item, error) {
	if _, err := access.ParseRole(string(actor.Role)); err != nil || actor.Role == access.RoleSystemScheduler {
		return nil, newError(KindForbidden, nil, "%s may not create articles", roleLabel(actor.Role))
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, newError(KindInvalidArgument, nil, "title is required")
	}
	status := in.Status
	if status == "" {
		status = content.StatusDraft
	}
	if status != content.StatusDraft && status != content.StatusIngestionPending {
		return nil, newError(KindInvalidArgument, nil, "new articles start as draft or ingestion_pending, not %s", status)
	}
	author := strings.TrimSpace(in.AuthorID)
	if author == "" {
		author = actor.ID
	}

	now := e.Now()
	item := &content.Item{
		Title:      title,
		Status:     status,
		AuthorID:   author,
		AssignedTo: strings.TrimSpace(in.AssignedTo),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	e.stats.Invalidate()

	ctx = services.WithItemID(ctx, item.ID)
	ctx = services.WithActor(ctx, actor.ID, string(actor.Role))
	logging.WithContext(ctx, e.logger).Info("article created",
		logging.String("status", string(status)),
		logging.String(logging.FieldEventType, "article_created"),
	)
	return item, nil
}
