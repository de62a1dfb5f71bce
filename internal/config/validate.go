package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateScheduler(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if c.Stats.CacheTTLSeconds < 0 {
		return errors.New("stats.cache_ttl_seconds must be >= 0")
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn must be set")
	}
	if !strings.Contains(c.Database.DSN, ":") {
		return fmt.Errorf("database.dsn %q must include a scheme such as sqlite: or postgres://", c.Database.DSN)
	}
	return nil
}

func (c *Config) validateScheduler() error {
	return ensurePositiveMap(map[string]int{
		"scheduler.interval_seconds":    c.Scheduler.IntervalSeconds,
		"scheduler.error_retry_seconds": c.Scheduler.ErrorRetrySeconds,
	})
}

func (c *Config) validateNotifications() error {
	if err := ensurePositiveMap(map[string]int{
		"notifications.request_timeout":  c.Notifications.RequestTimeout,
		"notifications.dispatch_timeout": c.Notifications.DispatchTimeout,
	}); err != nil {
		return err
	}
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic %q must be a full URL", c.Notifications.NtfyTopic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
