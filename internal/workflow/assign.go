package workflow

import (
	"context"
	"errors"
	"strings"

	"copydesk/internal/content"
	"copydesk/internal/logging"
	"copydesk/internal/notifications"
	"copydesk/internal/services"
	"copydesk/internal/store"
)

// Assign sets the article's assignee. It changes no status and writes no
// ledger record.
func (e *Engine) Assign(ctx context.Context, itemID, assigneeID string, actor Actor) (*content.Item, error) {
	if !e.resolver.CanAssign(actor.Role) {
		return nil, newError(KindForbidden, nil, "%s may not assign articles", roleLabel(actor.Role))
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, newError(KindInvalidArgument, nil, "article id is required")
	}

	ctx = services.WithItemID(ctx, itemID)
	ctx = services.WithActor(ctx, actor.ID, string(actor.Role))
	logger := logging.WithContext(ctx, e.logger)

	item, err := e.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return nil, newError(KindInvalidArgument, nil, "assignee is required")
	}

	now := e.Now()
	if err := e.repo.UpdateAssignment(ctx, itemID, assigneeID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, nil, "article %s not found", itemID)
		}
		return nil, err
	}

	previous := item.AssignedTo
	item.AssignedTo = assigneeID
	item.UpdatedAt = now
	logger.Info("article assigned",
		logging.String("assignee", assigneeID),
		logging.String("previous_assignee", previous),
		logging.String(logging.FieldEventType, "assignment_changed"),
	)
	e.dispatch(ctx, logger, notifications.EventAssignment, notifications.Payload{
		"title":    item.DisplayTitle(),
		"itemId":   item.ID,
		"assignee": assigneeID,
		"actor":    actorLabel(actor.Name, actor.ID),
	})
	return item, nil
}
