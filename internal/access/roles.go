package access

import (
	"fmt"
	"strings"
)

// Role names an editorial capability group. Roles arrive as snapshots from the
// caller; the resolver never looks them up.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleMaster          Role = "master"
	RoleChiefEditor     Role = "chief_editor"
	RoleEditor          Role = "editor"
	RoleReviewer        Role = "reviewer"
	RoleAuthor          Role = "author"
	RoleSystemScheduler Role = "system-scheduler"
)

var allRoles = []Role{
	RoleAdmin,
	RoleMaster,
	RoleChiefEditor,
	RoleEditor,
	RoleReviewer,
	RoleAuthor,
	RoleSystemScheduler,
}

// AllRoles returns every known role.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole normalizes user input into a known Role.
func ParseRole(value string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "chief-editor", "chief editor", "chiefeditor":
		normalized = string(RoleChiefEditor)
	}
	for _, role := range allRoles {
		if string(role) == normalized {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", value)
}

// IsSuper reports whether the role bypasses role tables.
func (r Role) IsSuper() bool {
	_, ok := superRoles[r]
	return ok
}
