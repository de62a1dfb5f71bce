// Package workflow runs the editorial content lifecycle.
//
// Engine is the single entry point for status changes: it loads the article,
// checks the transition graph and the role matrix, applies the field rules for
// the target status, then commits the new status and its ledger record in one
// compare-and-swap transaction. Notifications go out in the background after
// the commit and never roll it back.
//
// Reconciler owns the periodic sweep that publishes scheduled articles whose
// time has come. It enters shared state only through Engine, acting as the
// system scheduler, so manual and automatic publishes race safely.
package workflow
