// Package main hosts the copydesk CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into calls on
// the workflow service: article creation, transitions, assignment, listings,
// history, statistics, ledger verification, and scheduled publishing. It
// centralizes configuration resolution, actor identity flags, and output
// formatting so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
