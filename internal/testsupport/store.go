package testsupport

import (
	"context"
	"testing"
	"time"

	"copydesk/internal/config"
	"copydesk/internal/content"
	"copydesk/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// ArticleOption customizes NewArticle.
type ArticleOption func(*content.Item)

// WithAuthor sets the author ID.
func WithAuthor(id string) ArticleOption {
	return func(item *content.Item) { item.AuthorID = id }
}

// WithAssignee sets the assignee ID.
func WithAssignee(id string) ArticleOption {
	return func(item *content.Item) { item.AssignedTo = id }
}

// WithScheduledFor sets the scheduled publication time.
func WithScheduledFor(at time.Time) ArticleOption {
	return func(item *content.Item) {
		at = at.UTC()
		item.ScheduledFor = &at
	}
}

// WithUpdatedAt sets both timestamps, which controls list ordering.
func WithUpdatedAt(at time.Time) ArticleOption {
	return func(item *content.Item) {
		item.CreatedAt = at.UTC()
		item.UpdatedAt = at.UTC()
	}
}

// NewArticle inserts an item in the given status directly through the store,
// bypassing the workflow engine. Useful for seeding items mid-lifecycle.
func NewArticle(t testing.TB, st *store.Store, title string, status content.Status, opts ...ArticleOption) *content.Item {
	t.Helper()

	item := &content.Item{Title: title, Status: status}
	for _, opt := range opts {
		opt(item)
	}
	if err := st.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("store.CreateItem: %v", err)
	}
	return item
}
