// Package api defines the transport-facing workflow operations and their
// wire-format types. The CLI calls it directly; an HTTP layer can serve the
// same types without touching workflow internals.
//
// # Operations
//
// WorkflowService exposes TransitionStatus, AssignArticle,
// GetArticlesByStatus, GetWorkflowHistory, GetAvailableTransitions,
// GetWorkflowStats, ProcessScheduledPublications, and CreateArticle.
// Mutating operations never return Go errors: failures are reported as
// Success=false with a human-readable Message and a machine-readable Kind
// (one of the workflow error kinds, or "internal").
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers. Statuses
// and roles are exposed as their lowercase string values. Timestamps use
// RFC3339 with milliseconds in UTC.
package api
