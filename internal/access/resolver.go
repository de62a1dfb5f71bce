package access

import "copydesk/internal/content"

type roleSet map[Role]struct{}

func newRoleSet(roles ...Role) roleSet {
	set := make(roleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

func (s roleSet) has(role Role) bool {
	_, ok := s[role]
	return ok
}

var superRoles = newRoleSet(RoleAdmin, RoleMaster)

var (
	authoringRoles  = newRoleSet(RoleAuthor, RoleEditor, RoleChiefEditor)
	reviewRoles     = newRoleSet(RoleReviewer, RoleChiefEditor)
	publishRoles    = newRoleSet(RoleChiefEditor)
	privilegedRoles = newRoleSet(RoleAdmin)
	assignRoles     = newRoleSet(RoleChiefEditor, RoleAdmin)
)

// byTarget is the default table keyed by the status a transition lands on.
var byTarget = map[content.Status]roleSet{
	content.StatusDraft:            authoringRoles,
	content.StatusReview:           authoringRoles,
	content.StatusRevised:          authoringRoles,
	content.StatusApproved:         reviewRoles,
	content.StatusChangesRequested: reviewRoles,
	content.StatusRejected:         reviewRoles,
	content.StatusPublished:        publishRoles,
	content.StatusScheduled:        publishRoles,
	content.StatusArchived:         privilegedRoles,
}

// byEdge overrides byTarget for edges whose permission differs from other
// edges landing on the same status.
var byEdge = map[content.Edge]roleSet{
	{From: content.StatusPublished, To: content.StatusDraft}:     publishRoles,
	{From: content.StatusArchived, To: content.StatusDraft}:      privilegedRoles,
	{From: content.StatusScheduled, To: content.StatusPublished}: newRoleSet(RoleSystemScheduler),
}

// systemOnly edges cannot be taken by super roles.
var systemOnly = map[content.Edge]struct{}{
	{From: content.StatusScheduled, To: content.StatusPublished}: {},
}

// Resolver answers authorization questions for workflow transitions.
type Resolver struct{}

// NewResolver returns the resolver for the built-in role matrix.
func NewResolver() Resolver {
	return Resolver{}
}

// IsAllowed reports whether role may move an item from -> to. Edges absent
// from the content graph are always denied.
func (Resolver) IsAllowed(role Role, from, to content.Status) bool {
	if !content.CanTransition(from, to) {
		return false
	}
	edge := content.Edge{From: from, To: to}
	if _, ok := systemOnly[edge]; ok {
		return permitted(edge).has(role)
	}
	if role.IsSuper() {
		return true
	}
	return permitted(edge).has(role)
}

// CanAssign reports whether role may change an item's assignee.
func (Resolver) CanAssign(role Role) bool {
	return role.IsSuper() || assignRoles.has(role)
}

// AvailableTransitions lists the statuses role may move an item to from
// current, in graph order.
func (r Resolver) AvailableTransitions(current content.Status, role Role) []content.Status {
	var out []content.Status
	for _, to := range content.Targets(current) {
		if r.IsAllowed(role, current, to) {
			out = append(out, to)
		}
	}
	return out
}

// PermittedRoles returns the non-super roles listed for an edge, in the order
// of AllRoles. Unknown edges yield nil.
func (Resolver) PermittedRoles(from, to content.Status) []Role {
	if !content.CanTransition(from, to) {
		return nil
	}
	set := permitted(content.Edge{From: from, To: to})
	var out []Role
	for _, role := range allRoles {
		if set.has(role) {
			out = append(out, role)
		}
	}
	return out
}

func permitted(edge content.Edge) roleSet {
	if set, ok := byEdge[edge]; ok {
		return set
	}
	return byTarget[edge.To]
}
