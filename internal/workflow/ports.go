package workflow

import (
	"context"
	"time"

	"copydesk/internal/content"
	"copydesk/internal/store"
)

// ItemStore is the article persistence the engine depends on.
type ItemStore interface {
	CreateItem(ctx context.Context, item *content.Item) error
	GetByID(ctx context.Context, id string) (*content.Item, error)
	ListItems(ctx context.Context, filter store.ListFilter) ([]*content.Item, int, error)
	DueScheduled(ctx context.Context, now time.Time) ([]*content.Item, error)
	UpdateAssignment(ctx context.Context, id, assignee string, updatedAt time.Time) error
	CountsByStatus(ctx context.Context) (map[content.Status]int, error)
	ItemIDs(ctx context.Context) ([]string, error)
}

// Ledger is the append-only transition history. CommitTransition writes the
// item update and the record together.
type Ledger interface {
	CommitTransition(ctx context.Context, commit store.TransitionCommit) error
	History(ctx context.Context, articleID string) ([]content.TransitionRecord, error)
	CountsByTarget(ctx context.Context) (map[content.Status]int, error)
	CountsByActor(ctx context.Context) ([]store.ActorCount, error)
}

// Repository combines both ports; *store.Store satisfies it.
type Repository interface {
	ItemStore
	Ledger
}

var _ Repository = (*store.Store)(nil)

// Clock supplies the engine's notion of now.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }
