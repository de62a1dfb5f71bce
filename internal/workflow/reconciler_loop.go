package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"copydesk/internal/logging"
)

const (
	defaultReconcileInterval = 60 * time.Second
	defaultReconcileRetry    = 10 * time.Second
)

// Reconciler runs ProcessScheduled on a fixed interval.
type Reconciler struct {
	engine   *Engine
	logger   *slog.Logger
	interval time.Duration
	retry    time.Duration

	mu         sync.RWMutex
	running    bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	lastErr    error
	lastReport *ReconcileReport
	runs       int
}

// ReconcilerStatus is a snapshot of the loop for diagnostics.
type ReconcilerStatus struct {
	Running    bool
	Interval   time.Duration
	Runs       int
	LastError  string
	LastReport *ReconcileReport
}

// NewReconciler builds a loop that sweeps every interval and waits retry
// after a failed sweep. Non-positive durations fall back to 60s and 10s.
func NewReconciler(engine *Engine, interval, retry time.Duration, logger *slog.Logger) *Reconciler {
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	if retry <= 0 {
		retry = defaultReconcileRetry
	}
	return &Reconciler{
		engine:   engine,
		logger:   logging.NewComponentLogger(logger, "reconciler"),
		interval: interval,
		retry:    retry,
	}
}

// Start begins background sweeps.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("reconciler already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		r.Run(runCtx)
	}()
	return nil
}

// Stop terminates background sweeps and waits for the current one.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
}

// Run sweeps immediately and then on every tick until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("reconciler started",
		logging.Duration("interval", r.interval),
		logging.String(logging.FieldEventType, "reconciler_started"),
	)
	defer r.logger.Info("reconciler stopped", logging.String(logging.FieldEventType, "reconciler_stopped"))

	for {
		wait := r.interval
		if err := r.RunOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			wait = r.retry
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// RunOnce performs one sweep and records its outcome.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	report, err := r.engine.ProcessScheduled(ctx)
	if errors.Is(err, context.Canceled) {
		return err
	}

	r.mu.Lock()
	r.runs++
	r.lastErr = err
	if err == nil {
		r.lastReport = &report
	}
	r.mu.Unlock()

	if err != nil {
		logging.ErrorWithContext(r.logger, "scheduled publication sweep failed", "reconcile_failed",
			logging.Error(err),
			logging.Duration("retry_in", r.retry),
			logging.String(logging.FieldErrorHint, "check database access"),
		)
	}
	return err
}

// Status returns the loop's latest state.
func (r *Reconciler) Status() ReconcilerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	status := ReconcilerStatus{Running: r.running, Interval: r.interval, Runs: r.runs}
	if r.lastErr != nil {
		status.LastError = r.lastErr.Error()
	}
	if r.lastReport != nil {
		copy := *r.lastReport
		status.LastReport = &copy
	}
	return status
}
