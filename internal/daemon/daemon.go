package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"copydesk/internal/config"
	"copydesk/internal/logging"
	"copydesk/internal/notifications"
	"copydesk/internal/store"
	"copydesk/internal/workflow"
)

// Daemon runs the reconciler and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	engine     *workflow.Engine
	reconciler *workflow.Reconciler

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running          bool
	SchedulerEnabled bool
	Reconciler       workflow.ReconcilerStatus
	Database         store.DatabaseHealth
	DatabaseError    string
	LockFilePath     string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, engine *workflow.Engine, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || engine == nil {
		return nil, errors.New("daemon requires config, store, and workflow engine")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		store:      st,
		engine:     engine,
		reconciler: workflow.NewReconciler(engine, cfg.SchedulerInterval(), cfg.SchedulerRetryInterval(), logger),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the reconciler when the
// scheduler is enabled.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another copydesk daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if d.cfg.Scheduler.Enabled {
		if err := d.reconciler.Start(runCtx); err != nil {
			cancel()
			_ = d.lock.Unlock()
			return fmt.Errorf("start reconciler: %w", err)
		}
	} else {
		d.logger.Info("scheduled publishing disabled",
			logging.String(logging.FieldEventType, "scheduler_disabled"),
		)
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("copydesk daemon started",
		logging.String("lock", d.lockPath),
		logging.Bool("scheduler_enabled", d.cfg.Scheduler.Enabled),
		logging.String(logging.FieldEventType, "daemon_started"),
	)
	return nil
}

// Stop halts the reconciler, drains pending notifications, and releases the
// daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.reconciler.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.engine.Wait()
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no daemon is running"),
		)
	}
	d.running.Store(false)
	d.logger.Info("copydesk daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// RunSweep triggers an immediate reconciler pass outside the schedule.
func (d *Daemon) RunSweep(ctx context.Context) error {
	return d.reconciler.RunOnce(ctx)
}

// TestNotification sends a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.Publish(ctx, notifications.EventTest, nil); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LockPath returns the path to the single-instance lock file.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:          d.running.Load(),
		SchedulerEnabled: d.cfg.Scheduler.Enabled,
		Reconciler:       d.reconciler.Status(),
		LockFilePath:     d.lockPath,
	}
	health, err := d.store.CheckHealth(ctx)
	status.Database = health
	if err != nil {
		status.DatabaseError = err.Error()
	}
	return status
}
