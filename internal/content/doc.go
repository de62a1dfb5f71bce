// Package content defines the editorial item model shared by the workflow
// engine, the store, and the CLI.
//
// Status values and the transition graph are fixed at build time. The graph is
// only ever queried; callers that need to know whether an item may move from
// one status to another ask CanTransition or Targets and never build edges of
// their own.
package content
