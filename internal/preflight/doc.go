// Package preflight provides readiness checks for the filesystem paths,
// database, and notification endpoint that copydesk depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and logs each result. Failures are
//     warnings; the daemon keeps running.
//   - The CLI "copydesk doctor" command renders the same results and exits
//     non-zero when any check fails.
//
// The ntfy check is skipped when no topic is configured.
package preflight
