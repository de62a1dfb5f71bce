package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"copydesk/internal/access"
	"copydesk/internal/content"
	"copydesk/internal/store"
	"copydesk/internal/testsupport"
	"copydesk/internal/workflow"
)

var (
	author   = workflow.Actor{ID: "u-author", Name: "Ann Author", Role: access.RoleAuthor}
	editor   = workflow.Actor{ID: "u-editor", Name: "Ed Editor", Role: access.RoleEditor}
	reviewer = workflow.Actor{ID: "u-reviewer", Name: "Rita Reviewer", Role: access.RoleReviewer}
	second   = workflow.Actor{ID: "u-reviewer-2", Name: "Rob Reviewer", Role: access.RoleReviewer}
	chief    = workflow.Actor{ID: "u-chief", Name: "Cleo Chief", Role: access.RoleChiefEditor}
	admin    = workflow.Actor{ID: "u-admin", Name: "Adam Admin", Role: access.RoleAdmin}
)

var epoch = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	store    *store.Store
	engine   *workflow.Engine
	clock    *testsupport.ManualClock
	notifier *testsupport.RecordingNotifier
}

func newHarness(t *testing.T, opts ...workflow.Option) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return newHarnessWithRepo(t, st, st, opts...)
}

func newHarnessWithRepo(t *testing.T, st *store.Store, repo workflow.Repository, opts ...workflow.Option) *harness {
	t.Helper()
	clock := testsupport.NewManualClock(epoch)
	notifier := &testsupport.RecordingNotifier{}
	engine := workflow.NewEngine(repo, notifier, nil, append([]workflow.Option{workflow.WithClock(clock)}, opts...)...)
	t.Cleanup(engine.Wait)
	return &harness{store: st, engine: engine, clock: clock, notifier: notifier}
}

func (h *harness) create(t *testing.T, title string) *content.Item {
	t.Helper()
	item, err := h.engine.Create(context.Background(), workflow.NewArticle{Title: title}, author)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return item
}

func (h *harness) move(t *testing.T, id string, to content.Status, actor workflow.Actor, opts workflow.Options) *content.Item {
	t.Helper()
	item, err := h.engine.Transition(context.Background(), id, to, actor, opts)
	if err != nil {
		t.Fatalf("Transition to %s as %s: %v", to, actor.Role, err)
	}
	return item
}

// toApproved creates an article and walks it to approved.
func (h *harness) toApproved(t *testing.T, title string) *content.Item {
	t.Helper()
	item := h.create(t, title)
	h.move(t, item.ID, content.StatusReview, author, workflow.Options{})
	return h.move(t, item.ID, content.StatusApproved, reviewer, workflow.Options{})
}

func (h *harness) history(t *testing.T, id string) []content.TransitionRecord {
	t.Helper()
	records, err := h.engine.History(context.Background(), id)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	return records
}

func (h *harness) reload(t *testing.T, id string) *content.Item {
	t.Helper()
	item, err := h.store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item == nil {
		t.Fatalf("article %s missing", id)
	}
	return item
}

func expectKind(t *testing.T, err error, kind workflow.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := workflow.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}

// gatedRepo holds the first n GetByID calls until all n have arrived, so
// concurrent transitions read the same starting status.
type gatedRepo struct {
	*store.Store
	mu        sync.Mutex
	remaining int
	gate      chan struct{}
}

func newGatedRepo(st *store.Store, n int) *gatedRepo {
	return &gatedRepo{Store: st, remaining: n, gate: make(chan struct{})}
}

func (g *gatedRepo) GetByID(ctx context.Context, id string) (*content.Item, error) {
	item, err := g.Store.GetByID(ctx, id)
	g.mu.Lock()
	if g.remaining == 0 {
		g.mu.Unlock()
		return item, err
	}
	g.remaining--
	if g.remaining == 0 {
		close(g.gate)
	}
	g.mu.Unlock()
	<-g.gate
	return item, err
}

// flakyRepo injects commit failures. conflicts is the number of spurious
// ErrStatusConflict results to return first; failIDs always fail.
type flakyRepo struct {
	*store.Store
	mu        sync.Mutex
	conflicts int
	failIDs   map[string]bool
	commits   int
	dueErr    error
}

func (f *flakyRepo) CommitTransition(ctx context.Context, commit store.TransitionCommit) error {
	f.mu.Lock()
	f.commits++
	if f.failIDs[commit.Item.ID] {
		f.mu.Unlock()
		return errors.New("disk full")
	}
	if f.conflicts > 0 {
		f.conflicts--
		f.mu.Unlock()
		return store.ErrStatusConflict
	}
	f.mu.Unlock()
	return f.Store.CommitTransition(ctx, commit)
}

func (f *flakyRepo) DueScheduled(ctx context.Context, now time.Time) ([]*content.Item, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	return f.Store.DueScheduled(ctx, now)
}
