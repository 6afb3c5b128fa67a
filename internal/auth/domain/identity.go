package domain

import "errors"

// Role is the coarse access level attached to every token pair. Fine-grained
// field-level policies live in the dashboard routes, not here.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleSupport Role = "support"
	RoleViewer  Role = "viewer"
)

// ErrUnknownRole reports a role string outside the known set.
var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a role string coming from storage or token claims.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleSupport, RoleViewer:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }

// Identity is the claim set embedded in both token kinds. Sibling access and
// refresh tokens issued together always carry the same identity.
type Identity struct {
	ID   int64
	Name string
	Role Role
}
