package auth

import (
	errors "github.com/frahmantamala/leave-management/internal"
)

// CheckRole is the capability check behind every role-gated operation.
func CheckRole(u *User, allowed Role) error {
	if u == nil {
		return errors.ErrInvalidToken
	}
	if u.Role != allowed {
		return errors.ErrRoleNotAllowed
	}
	if !u.IsActive {
		return errors.ErrUserInactive
	}
	return nil
}
