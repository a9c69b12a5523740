// Package authorization defines the caller roles used in permission checks.
package authorization

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleUser
}

// RoleFor maps the administrator flag of an identity to its role.
func RoleFor(isAdmin bool) UserRole {
	if isAdmin {
		return RoleAdmin
	}
	return RoleUser
}
