package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"copydesk/internal/access"
	"copydesk/internal/config"
	"copydesk/internal/logging"
	"copydesk/internal/notifications"
	"copydesk/internal/statscache"
)

const defaultDispatchTimeout = 15 * time.Second

// Actor is the snapshot of who is performing an operation. Name and Role are
// copied into ledger records as given.
type Actor struct {
	ID   string
	Name string
	Role access.Role
}

// SystemActor is the identity the reconciler publishes under.
var SystemActor = Actor{ID: "system", Name: "System Scheduler", Role: access.RoleSystemScheduler}

// Engine executes transitions, assignments, and workflow queries.
type Engine struct {
	repo            Repository
	resolver        access.Resolver
	notifier        notifications.Service
	logger          *slog.Logger
	clock           Clock
	stats           *statscache.Cache[Stats]
	dispatchTimeout time.Duration

	// dispatchMu serializes pending.Add against Wait.
	dispatchMu sync.Mutex
	pending    sync.WaitGroup
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithStatsCache installs the cache used by Stats. The engine invalidates it
// after every committed transition.
func WithStatsCache(cache *statscache.Cache[Stats]) Option {
	return func(e *Engine) { e.stats = cache }
}

// WithDispatchTimeout bounds each background notification.
func WithDispatchTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout > 0 {
			e.dispatchTimeout = timeout
		}
	}
}

// NewEngine constructs an engine over repo. A nil notifier disables
// notifications and a nil logger discards logs.
func NewEngine(repo Repository, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Engine {
	if notifier == nil {
		notifier = notifications.NewNoop()
	}
	e := &Engine{
		repo:            repo,
		resolver:        access.NewResolver(),
		notifier:        notifier,
		logger:          logging.NewComponentLogger(logger, "workflow-engine"),
		clock:           SystemClock(),
		dispatchTimeout: defaultDispatchTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEngineFromConfig wires the notifier, stats cache, and dispatch timeout
// from configuration.
func NewEngineFromConfig(cfg *config.Config, repo Repository, logger *slog.Logger, opts ...Option) *Engine {
	base := []Option{
		WithStatsCache(statscache.New[Stats](cfg.StatsCacheTTL())),
		WithDispatchTimeout(cfg.NotifyDispatchTimeout()),
	}
	return NewEngine(repo, notifications.NewService(cfg), logger, append(base, opts...)...)
}

// Resolver exposes the authorization rules the engine enforces.
func (e *Engine) Resolver() access.Resolver { return e.resolver }

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time { return e.clock.Now().UTC() }

// Wait blocks until every background notification has finished. It is safe
// to call while transitions are still running: dispatches that start during
// Wait block until it returns and are not waited for. The engine stays usable
// afterwards.
func (e *Engine) Wait() {
	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()
	e.pending.Wait()
}

func (e *Engine) dispatch(ctx context.Context, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	base := context.WithoutCancel(ctx)
	e.dispatchMu.Lock()
	e.pending.Add(1)
	e.dispatchMu.Unlock()
	go func() {
		defer e.pending.Done()
		dispatchCtx, cancel := context.WithTimeout(base, e.dispatchTimeout)
		defer cancel()
		if err := e.notifier.Publish(dispatchCtx, event, payload); err != nil {
			logging.WarnWithContext(logger, "notification failed", "notification_failed",
				logging.String("notification_event", string(event)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check ntfy topic and network access"),
				logging.String(logging.FieldImpact, "the change was saved but nobody was notified"),
			)
		}
	}()
}
