// Package notifications delivers editorial workflow events via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when no topic is set. Event types cover
// status transitions, publication, change requests, assignment changes, and
// scheduled publication runs. Each category can be switched off in the
// [notifications] config section.
//
// Workflow code depends only on the Service interface, so tests can swap in a
// recording implementation.
package notifications
