package preflight

import (
	"context"
	"strings"

	"copydesk/internal/config"
)

// CheckNtfyFromConfig evaluates notification status from config and
// connectivity. An unset topic is reported as disabled, not failed.
func CheckNtfyFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "ntfy"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	return CheckNtfy(ctx, cfg.Notifications.NtfyTopic)
}

// SchedulerDetail summarizes the reconciler settings for status output.
func SchedulerDetail(cfg *config.Config) Result {
	const name = "Scheduler"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.Scheduler.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	return Result{Name: name, Passed: true, Detail: "every " + cfg.SchedulerInterval().String()}
}
