package auth

import (
	"strings"

	errors "github.com/frahmantamala/leave-management/internal"
)

// Role is the closed set of access roles. There is no hierarchy between them.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
)

var Roles = []Role{RoleEmployee, RoleHR}

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleHR
}

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", errors.NewValidationFieldError("role", "role must be one of: employee, hr", errors.ErrCodeInvalidRole)
	}
	return role, nil
}

// RoleNames lists the accepted role names, for validators and docs.
func RoleNames() []string {
	names := make([]string, len(Roles))
	for i, r := range Roles {
		names[i] = string(r)
	}
	return names
}
