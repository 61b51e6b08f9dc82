package workflow

import "strings"

// Role is the privilege tier of an authenticated user.
type Role string

const (
	RoleUser       Role = "USER"
	RoleEditor     Role = "EDITOR"
	RoleModerator  Role = "MODERATOR"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ElevatedThreshold is the lowest role allowed to publish, archive and
// manage entries it does not own.
const ElevatedThreshold = RoleModerator

var privilegeLevels = map[Role]int{
	RoleUser:       0,
	RoleEditor:     1,
	RoleModerator:  2,
	RoleSuperAdmin: 3,
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := privilegeLevels[r]
	return r, ok
}

// Level returns the privilege level of r, or -1 for an unknown role.
func (r Role) Level() int {
	if level, ok := privilegeLevels[r]; ok {
		return level
	}
	return -1
}

func (r Role) Valid() bool {
	return r.Level() >= 0
}

// AtLeast reports whether r is a known role at or above min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Level() >= min.Level()
}

// Elevated reports whether r may act on entries regardless of ownership.
func Elevated(r Role) bool {
	return r.AtLeast(ElevatedThreshold)
}
