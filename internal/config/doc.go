// Package config reads the copydesk TOML file and turns it into a validated
// Config.
//
// Loading applies defaults first, then the file, then the COPYDESK_DSN and
// COPYDESK_NTFY_TOPIC environment overrides. Paths are expanded (a leading
// ~ included) and made absolute before validation runs. The CLI and the daemon
// both go through Load, so they always agree on where the database lives and
// how often scheduled articles are swept.
package config
