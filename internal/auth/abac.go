package auth

import (
	"context"

	errors "github.com/frahmantamala/leave-management/internal"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

// CanAccessEmployee lets HR read any employee's records and everyone else only their own.
func CanAccessEmployee(u *User, employeeUserID string) error {
	if u == nil {
		return errors.ErrInvalidToken
	}
	if u.IsHR() || u.ID == employeeUserID {
		return nil
	}
	return errors.ErrUnauthorizedAccess
}
