// Package logging assembles structured slog loggers and formatting helpers used
// across copydesk.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so workflow code can tag log
// lines with article IDs, actor roles, and correlation IDs. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
