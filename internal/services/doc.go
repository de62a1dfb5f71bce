// Package services holds request-scoped helpers shared by the workflow engine,
// the API facade, and the daemon.
//
// The context helpers stamp article IDs, actor snapshots, operation names, and
// correlation identifiers onto a context so logging can attach them without
// threading extra parameters through every call.
package services
