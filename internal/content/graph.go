package content

import "fmt"

// Edge is a directed move between two statuses.
type Edge struct {
	From Status
	To   Status
}

func (e Edge) String() string {
	return fmt.Sprintf("%s->%s", e.From, e.To)
}

// transitions lists outgoing edges per status in display order. Archival is
// reachable from every status except archived itself.
var transitions = map[Status][]Status{
	StatusIngestionPending: {StatusDraft, StatusArchived},
	StatusDraft:            {StatusReview, StatusArchived},
	StatusReview:           {StatusApproved, StatusChangesRequested, StatusRejected, StatusArchived},
	StatusChangesRequested: {StatusRevised, StatusArchived},
	StatusRevised:          {StatusReview, StatusArchived},
	StatusApproved:         {StatusPublished, StatusScheduled, StatusArchived},
	StatusPublished:        {StatusDraft, StatusArchived},
	StatusScheduled:        {StatusPublished, StatusArchived},
	StatusArchived:         {StatusDraft},
	StatusRejected:         {StatusArchived},
}

var edgeSet = func() map[Edge]struct{} {
	set := make(map[Edge]struct{})
	for from, targets := range transitions {
		for _, to := range targets {
			set[Edge{From: from, To: to}] = struct{}{}
		}
	}
	return set
}()

// CanTransition reports whether the graph contains the edge from -> to.
func CanTransition(from, to Status) bool {
	_, ok := edgeSet[Edge{From: from, To: to}]
	return ok
}

// Targets returns the statuses reachable from the given status in one step.
func Targets(from Status) []Status {
	targets := transitions[from]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// Edges returns every edge in the graph ordered by source status.
func Edges() []Edge {
	edges := make([]Edge, 0, len(edgeSet))
	for _, from := range allStatuses {
		for _, to := range transitions[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}
