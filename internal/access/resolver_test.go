package access_test

import (
	"testing"

	"copydesk/internal/access"
	"copydesk/internal/content"
)

// expected lists the non-super roles allowed per edge.
var expected = map[content.Edge][]access.Role{
	{From: content.StatusIngestionPending, To: content.StatusDraft}:   {access.RoleChiefEditor, access.RoleEditor, access.RoleAuthor},
	{From: content.StatusDraft, To: content.StatusReview}:             {access.RoleChiefEditor, access.RoleEditor, access.RoleAuthor},
	{From: content.StatusRevised, To: content.StatusReview}:           {access.RoleChiefEditor, access.RoleEditor, access.RoleAuthor},
	{From: content.StatusChangesRequested, To: content.StatusRevised}: {access.RoleChiefEditor, access.RoleEditor, access.RoleAuthor},
	{From: content.StatusReview, To: content.StatusApproved}:          {access.RoleChiefEditor, access.RoleReviewer},
	{From: content.StatusReview, To: content.StatusChangesRequested}:  {access.RoleChiefEditor, access.RoleReviewer},
	{From: content.StatusReview, To: content.StatusRejected}:          {access.RoleChiefEditor, access.RoleReviewer},
	{From: content.StatusApproved, To: content.StatusPublished}:       {access.RoleChiefEditor},
	{From: content.StatusApproved, To: content.StatusScheduled}:       {access.RoleChiefEditor},
	{From: content.StatusPublished, To: content.StatusDraft}:          {access.RoleChiefEditor},
	{From: content.StatusScheduled, To: content.StatusPublished}:      {access.RoleSystemScheduler},
	{From: content.StatusArchived, To: content.StatusDraft}:           {access.RoleAdmin},
}

func allowedFor(edge content.Edge, role access.Role) bool {
	if !content.CanTransition(edge.From, edge.To) {
		return false
	}
	if edge.From == content.StatusScheduled && edge.To == content.StatusPublished {
		return role == access.RoleSystemScheduler
	}
	if role.IsSuper() {
		return true
	}
	if edge.To == content.StatusArchived {
		return role == access.RoleAdmin
	}
	for _, allowed := range expected[edge] {
		if allowed == role {
			return true
		}
	}
	return false
}

func TestIsAllowedMatchesTable(t *testing.T) {
	resolver := access.NewResolver()
	for _, from := range content.AllStatuses() {
		for _, to := range content.AllStatuses() {
			edge := content.Edge{From: from, To: to}
			for _, role := range access.AllRoles() {
				want := allowedFor(edge, role)
				if got := resolver.IsAllowed(role, from, to); got != want {
					t.Fatalf("IsAllowed(%s, %s) = %v, want %v", role, edge, got, want)
				}
			}
		}
	}
}

func TestEveryEdgeHasAnAllowedRole(t *testing.T) {
	resolver := access.NewResolver()
	for _, edge := range content.Edges() {
		found := false
		for _, role := range access.AllRoles() {
			if resolver.IsAllowed(role, edge.From, edge.To) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("edge %s has no permitted role", edge)
		}
	}
}

func TestSchedulerHoldsExactlyOneEdge(t *testing.T) {
	resolver := access.NewResolver()
	var granted []content.Edge
	for _, edge := range content.Edges() {
		if resolver.IsAllowed(access.RoleSystemScheduler, edge.From, edge.To) {
			granted = append(granted, edge)
		}
	}
	if len(granted) != 1 || granted[0] != (content.Edge{From: content.StatusScheduled, To: content.StatusPublished}) {
		t.Fatalf("scheduler granted unexpected edges: %v", granted)
	}
}

func TestSuperRolesNeverBypassGraph(t *testing.T) {
	resolver := access.NewResolver()
	for _, role := range []access.Role{access.RoleAdmin, access.RoleMaster} {
		if resolver.IsAllowed(role, content.StatusDraft, content.StatusPublished) {
			t.Fatalf("%s allowed draft->published", role)
		}
		if resolver.IsAllowed(role, content.StatusScheduled, content.StatusPublished) {
			t.Fatalf("%s allowed system-only edge", role)
		}
	}
}

func TestUnknownRoleDenied(t *testing.T) {
	resolver := access.NewResolver()
	if resolver.IsAllowed(access.Role("intern"), content.StatusDraft, content.StatusReview) {
		t.Fatal("unknown role should be denied")
	}
	if resolver.CanAssign(access.Role("intern")) {
		t.Fatal("unknown role should not assign")
	}
}

func TestCanAssign(t *testing.T) {
	resolver := access.NewResolver()
	cases := map[access.Role]bool{
		access.RoleAdmin:           true,
		access.RoleMaster:          true,
		access.RoleChiefEditor:     true,
		access.RoleEditor:          false,
		access.RoleReviewer:        false,
		access.RoleAuthor:          false,
		access.RoleSystemScheduler: false,
	}
	for role, want := range cases {
		if got := resolver.CanAssign(role); got != want {
			t.Fatalf("CanAssign(%s) = %v, want %v", role, got, want)
		}
	}
}

func TestAvailableTransitions(t *testing.T) {
	resolver := access.NewResolver()
	got := resolver.AvailableTransitions(content.StatusReview, access.RoleReviewer)
	want := []content.Status{content.StatusApproved, content.StatusChangesRequested, content.StatusRejected}
	if len(got) != len(want) {
		t.Fatalf("unexpected transitions %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected transitions %v", got)
		}
	}
	if len(resolver.AvailableTransitions(content.StatusScheduled, access.RoleAdmin)) != 1 {
		t.Fatal("admin should only be able to archive a scheduled item")
	}
}

func TestParseRole(t *testing.T) {
	role, err := access.ParseRole("Chief-Editor")
	if err != nil || role != access.RoleChiefEditor {
		t.Fatalf("ParseRole: %v %v", role, err)
	}
	if _, err := access.ParseRole("guest"); err == nil {
		t.Fatal("expected unknown role error")
	}
	for _, alias := range []string{"scheduler", "system_scheduler"} {
		if role, err := access.ParseRole(alias); err == nil {
			t.Fatalf("ParseRole(%q) = %q, expected no alias for the scheduler role", alias, role)
		}
	}
}
