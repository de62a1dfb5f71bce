package content

import "fmt"

// ReplayError describes the first record that breaks the history chain.
type ReplayError struct {
	Index  int
	Record TransitionRecord
	Want   Status
}

func (e *ReplayError) Error() string {
	if !CanTransition(e.Record.FromStatus, e.Record.ToStatus) {
		return fmt.Sprintf("record %d (%s) is not an edge in the transition graph", e.Index, e.Record.Edge())
	}
	return fmt.Sprintf("record %d claims from %s but item was %s", e.Index, e.Record.FromStatus, e.Want)
}

// Replay folds an ordered history starting at initial and returns the status
// it ends on. When initial is empty the first record's from-status is used.
// Every record must continue from the previous one along a graph edge.
func Replay(initial Status, records []TransitionRecord) (Status, error) {
	current := initial
	for idx, record := range records {
		if current == "" {
			current = record.FromStatus
		}
		if record.FromStatus != current || !CanTransition(record.FromStatus, record.ToStatus) {
			return current, &ReplayError{Index: idx, Record: record, Want: current}
		}
		current = record.ToStatus
	}
	return current, nil
}
