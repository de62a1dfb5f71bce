// Package store persists editorial items and their transition ledger.
//
// A single database holds both the content_items table and the append-only
// transition_records table so that an item's status change and its ledger
// entry commit in one transaction. CommitTransition applies the status change
// as a compare-and-swap on the previous status; callers learn they lost a race
// through ErrStatusConflict rather than by overwriting another writer.
//
// SQLite (modernc.org/sqlite) is the default backend. Postgres is selected
// by giving a postgres:// DSN; both share the same schema and query builder.
// Schema changes bump schemaVersion in schema.go.
package store
