package workflow

import (
	"context"
	"fmt"
	"time"

	"copydesk/internal/content"
	"copydesk/internal/logging"
	"copydesk/internal/notifications"
	"copydesk/internal/services"
)

// ReconcileError records one article the sweep could not publish.
type ReconcileError struct {
	ArticleID string
	Kind      Kind
	Message   string
}

// ReconcileReport summarizes one scheduled publication sweep.
type ReconcileReport struct {
	Published []string
	Errors    []ReconcileError
	Skipped   []string
	StartedAt time.Time
	Duration  time.Duration
}

// ProcessScheduled publishes every scheduled article whose time has come.
// Per-article failures are collected and never abort the sweep; articles that
// another writer moved first are skipped. Only a failure to query due
// articles fails the run.
func (e *Engine) ProcessScheduled(ctx context.Context) (ReconcileReport, error) {
	ctx = services.WithOperation(ctx, "process_scheduled")
	logger := logging.WithContext(ctx, e.logger)
	report := ReconcileReport{
		Published: []string{},
		Errors:    []ReconcileError{},
		Skipped:   []string{},
		StartedAt: e.Now(),
	}

	due, err := e.repo.DueScheduled(ctx, report.StartedAt)
	if err != nil {
		return report, fmt.Errorf("query due scheduled articles: %w", err)
	}

	for _, item := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		_, err := e.Transition(ctx, item.ID, content.StatusPublished, SystemActor, Options{Reason: "scheduled publication"})
		switch kind := KindOf(err); {
		case err == nil:
			report.Published = append(report.Published, item.ID)
		case kind == KindConflict, kind == KindIllegalTransition, kind == KindNotFound:
			report.Skipped = append(report.Skipped, item.ID)
		default:
			report.Errors = append(report.Errors, ReconcileError{ArticleID: item.ID, Kind: kind, Message: err.Error()})
			logging.WarnWithContext(logger, "scheduled publication failed", "scheduled_publish_failed",
				logging.ItemID(item.ID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check database access; the article is retried next sweep"),
				logging.String(logging.FieldImpact, "article stays scheduled"),
			)
		}
	}
	report.Duration = e.Now().Sub(report.StartedAt)

	if len(due) > 0 {
		logger.Info("scheduled publication sweep complete",
			logging.Int("due", len(due)),
			logging.Int("published", len(report.Published)),
			logging.Int("skipped", len(report.Skipped)),
			logging.Int("failed", len(report.Errors)),
			logging.String(logging.FieldEventType, "reconcile_completed"),
		)
	}
	if len(report.Published) > 0 || len(report.Errors) > 0 {
		e.dispatch(ctx, logger, notifications.EventReconcileCompleted, notifications.Payload{
			"published": len(report.Published),
			"errors":    len(report.Errors),
			"skipped":   len(report.Skipped),
		})
	}
	return report, nil
}
