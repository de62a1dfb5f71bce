package store

import (
	"errors"

	"copydesk/internal/content"
)

var (
	// ErrStatusConflict reports that the item's stored status no longer
	// matches the status the caller read before writing.
	ErrStatusConflict = errors.New("item status changed concurrently")
	// ErrNotFound reports that no item has the requested ID.
	ErrNotFound = errors.New("item not found")
	// ErrLedgerAppend wraps failures writing the transition record. The
	// item update in the same transaction is rolled back.
	ErrLedgerAppend = errors.New("append ledger record")
)

// ListFilter narrows ListItems. Zero values mean "no constraint".
type ListFilter struct {
	Statuses   []content.Status
	AuthorID   string
	AssignedTo string
	Limit      int
	Offset     int
}

// TransitionCommit is the unit CommitTransition persists: the item's state
// after the transition, the status it must still hold in storage, and the
// ledger entry describing the move.
type TransitionCommit struct {
	Item   *content.Item
	From   content.Status
	Record *content.TransitionRecord
}

// ActorCount is one row of the per-actor ledger aggregate.
type ActorCount struct {
	ActorID   string
	ActorName string
	ActorRole string
	Count     int
}

// DatabaseHealth captures diagnostic information about the store.
type DatabaseHealth struct {
	Driver          string
	Location        string
	Reachable       bool
	SchemaVersion   int
	ExpectedVersion int
	ItemCount       int
	RecordCount     int
	Error           string
}
