// Package daemon coordinates the long-running copydesk process.
//
// It wires configuration, the article store, the workflow engine, and the
// scheduled publication reconciler into a single lifecycle with flock-based
// locking to prevent multiple instances from publishing the same articles.
//
// Keep orchestration logic here: workflow rules live in the workflow package
// while the daemon focuses on startup, shutdown, and high level coordination.
package daemon
