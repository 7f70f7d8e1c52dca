package access

import "strings"

// Role is the caller's role as supplied by the authentication layer.
type Role int

const (
	RoleUnknown Role = iota
	RoleStudent
	RoleTeacher
	RoleParent
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleStudent: "student",
	RoleTeacher: "teacher",
	RoleParent:  "parent",
	RoleAdmin:   "admin",
}

// ParseRole maps a claim value to a Role. Unrecognised values yield RoleUnknown.
func ParseRole(value string) Role {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for role, name := range roleNames {
		if name == normalized {
			return role
		}
	}
	return RoleUnknown
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Viewer identifies the caller of a reporting operation.
type Viewer struct {
	ID   uint
	Role Role
}

// Valid reports whether the viewer carries an id and a known role.
func (v Viewer) Valid() bool {
	return v.ID != 0 && v.Role != RoleUnknown
}
