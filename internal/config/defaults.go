package config

const (
	defaultConfigPath            = "~/.config/copydesk/config.toml"
	defaultDataDir               = "~/.local/share/copydesk"
	defaultLogDir                = "~/.local/share/copydesk/logs"
	defaultDatabaseFile          = "copydesk.db"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultSchedulerInterval     = 60
	defaultSchedulerErrorRetry   = 10
	defaultNotifyRequestTimeout  = 10
	defaultNotifyDispatchTimeout = 15
	defaultStatsCacheTTLSeconds  = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Scheduler: Scheduler{
			Enabled:           true,
			IntervalSeconds:   defaultSchedulerInterval,
			ErrorRetrySeconds: defaultSchedulerErrorRetry,
		},
		Notifications: Notifications{
			RequestTimeout:  defaultNotifyRequestTimeout,
			DispatchTimeout: defaultNotifyDispatchTimeout,
			Transitions:     true,
			Assignments:     true,
			Reconciler:      true,
		},
		Stats: Stats{
			CacheTTLSeconds: defaultStatsCacheTTLSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
