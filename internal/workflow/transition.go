package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"copydesk/internal/access"
	"copydesk/internal/content"
	"copydesk/internal/logging"
	"copydesk/internal/notifications"
	"copydesk/internal/services"
	"copydesk/internal/store"
)

// casAttempts bounds writes per Transition: the first attempt plus one retry
// when the compare-and-swap misses but the status reads back unchanged.
const casAttempts = 2

// Options carries the optional inputs of a transition.
type Options struct {
	Reason   string
	Feedback string
	// PublishedAt backdates a publication. It may not be in the future.
	PublishedAt *time.Time
	// ScheduledFor is required when the target is scheduled.
	ScheduledFor *time.Time
}

// Transition moves an article to status to on behalf of actor. On success
// exactly one ledger record is written and the updated article is returned.
func (e *Engine) Transition(ctx context.Context, itemID string, to content.Status, actor Actor, opts Options) (*content.Item, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, newError(KindInvalidArgument, nil, "article id is required")
	}
	if !to.Valid() {
		return nil, newError(KindInvalidArgument, nil, "unknown status %q", to)
	}
	if strings.TrimSpace(actor.ID) == "" {
		return nil, newError(KindInvalidArgument, nil, "actor id is required")
	}

	ctx = services.WithItemID(ctx, itemID)
	ctx = services.WithActor(ctx, actor.ID, string(actor.Role))
	logger := logging.WithContext(ctx, e.logger)

	for attempt := 1; ; attempt++ {
		item, err := e.load(ctx, itemID)
		if err != nil {
			return nil, err
		}
		from := item.Status
		now := e.Now()

		next, record, err := e.prepare(item, to, actor, opts, now)
		if err != nil {
			return nil, err
		}

		err = e.repo.CommitTransition(ctx, store.TransitionCommit{Item: next, From: from, Record: record})
		if err == nil {
			e.stats.Invalidate()
			logger.Info("article transitioned",
				logging.Transition(string(from), string(to)),
				logging.Int64("ledger_seq", record.Seq),
				logging.String(logging.FieldEventType, "transition_committed"),
			)
			e.dispatch(ctx, logger, transitionEvent(to), transitionPayload(next, record))
			return next, nil
		}
		if !errors.Is(err, store.ErrStatusConflict) {
			logging.ErrorWithContext(logger, "transition commit failed", "transition_commit_failed",
				logging.Transition(string(from), string(to)),
				logging.Error(err),
				logging.String(logging.FieldErrorKind, string(KindLedgerWriteFailed)),
				logging.String(logging.FieldErrorHint, "check database access"),
			)
			return nil, newError(KindLedgerWriteFailed, err, "could not record the status change")
		}

		current, loadErr := e.load(ctx, itemID)
		if loadErr != nil {
			return nil, loadErr
		}
		if current.Status != from || attempt >= casAttempts {
			logger.Info("transition lost a concurrent update",
				logging.String("expected_status", string(from)),
				logging.String("current_status", string(current.Status)),
				logging.String(logging.FieldEventType, "transition_conflict"),
			)
			return nil, newError(KindConflict, err, "article is now %s; reload and try again", current.Status.Label())
		}
		logger.Debug("retrying transition after compare-and-swap miss", logging.Int("attempt", attempt))
	}
}

func (e *Engine) load(ctx context.Context, itemID string) (*content.Item, error) {
	item, err := e.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load article %s: %w", itemID, err)
	}
	if item == nil {
		return nil, newError(KindNotFound, nil, "article %s not found", itemID)
	}
	return item, nil
}

// prepare validates the move against the graph, the role matrix, and the
// field rules, and returns the updated item and its ledger record.
func (e *Engine) prepare(item *content.Item, to content.Status, actor Actor, opts Options, now time.Time) (*content.Item, *content.TransitionRecord, error) {
	from := item.Status
	verb := content.Verb(from, to)
	if !content.CanTransition(from, to) {
		return nil, nil, newError(KindIllegalTransition, nil, "cannot %s %s", verb, from.Phrase())
	}
	if !e.resolver.IsAllowed(actor.Role, from, to) {
		return nil, nil, newError(KindForbidden, nil, "%s may not %s %s", roleLabel(actor.Role), verb, from.Phrase())
	}
	// The scheduled publication edge only fires once the stored time has
	// passed. Conflict lets a sweep holding a stale due list skip the item.
	if from == content.StatusScheduled && to == content.StatusPublished {
		if item.ScheduledFor == nil {
			return nil, nil, newError(KindConflict, nil, "article has no scheduled publication time")
		}
		if item.ScheduledFor.After(now) {
			return nil, nil, newError(KindConflict, nil, "article is not due until %s", item.ScheduledFor.UTC().Format(time.RFC3339))
		}
	}

	next := item.Clone()
	next.Status = to
	next.UpdatedAt = now
	if err := applyFieldRules(next, from, to, opts, now); err != nil {
		return nil, nil, err
	}

	record := &content.TransitionRecord{
		ArticleID:  item.ID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		Reason:     strings.TrimSpace(opts.Reason),
		Feedback:   strings.TrimSpace(opts.Feedback),
		CreatedAt:  now,
	}
	return next, record, nil
}

func applyFieldRules(next *content.Item, from, to content.Status, opts Options, now time.Time) error {
	if from == content.StatusPublished {
		next.PublishedAt = nil
	}
	if from == content.StatusScheduled {
		next.ScheduledFor = nil
	}

	switch to {
	case content.StatusPublished:
		at := now
		if opts.PublishedAt != nil {
			at = opts.PublishedAt.UTC()
			if at.After(now) {
				return newError(KindInvalidArgument, nil, "publication time may not be in the future")
			}
		}
		next.PublishedAt = &at
		next.ScheduledFor = nil
	case content.StatusScheduled:
		if opts.ScheduledFor == nil {
			return newError(KindInvalidArgument, nil, "a publication time is required to schedule")
		}
		at := opts.ScheduledFor.UTC()
		if !at.After(now) {
			return newError(KindInvalidArgument, nil, "scheduled publication time must be in the future")
		}
		next.ScheduledFor = &at
	case content.StatusChangesRequested:
		if strings.TrimSpace(opts.Feedback) == "" {
			return newError(KindInvalidArgument, nil, "feedback is required when requesting changes")
		}
	}
	return nil
}

func roleLabel(role access.Role) string {
	if role == "" {
		return "an actor without a role"
	}
	return "role " + string(role)
}

func transitionEvent(to content.Status) notifications.Event {
	switch to {
	case content.StatusPublished:
		return notifications.EventPublished
	case content.StatusChangesRequested:
		return notifications.EventChangesRequested
	default:
		return notifications.EventTransition
	}
}

func transitionPayload(item *content.Item, record *content.TransitionRecord) notifications.Payload {
	return notifications.Payload{
		"title":    item.DisplayTitle(),
		"itemId":   item.ID,
		"from":     string(record.FromStatus),
		"to":       string(record.ToStatus),
		"verb":     content.Verb(record.FromStatus, record.ToStatus),
		"actor":    actorLabel(record.ActorName, record.ActorID),
		"feedback": record.Feedback,
	}
}

func actorLabel(name, id string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return id
}
