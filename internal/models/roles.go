package models

// Role is the coarse permission level attached to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole returns the Role named by s, or false.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}
