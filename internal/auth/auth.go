package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authenticated caller, reloaded from storage on every request.
type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Username     string  `json:"username"`
	EmployeeCode string  `json:"employee_code"`
	Role         Role    `json:"role"`
	Department   *string `json:"department,omitempty"`
	IsActive     bool    `json:"is_active"`
}

func (u *User) IsHR() bool {
	return u != nil && u.Role == RoleHR
}

func (u *User) IsEmployee() bool {
	return u != nil && u.Role == RoleEmployee
}

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims carries the identity fields of the caller plus a token id (jti).
type Claims struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	EmployeeCode string    `json:"employee_code"`
	Role         Role      `json:"role"`
	Department   *string   `json:"department,omitempty"`
	TokenType    TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and verifies signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(u *User) (string, error)
	GenerateRefreshToken(u *User) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessTokenTTL() time.Duration
}

// TokenStore revokes tokens before their natural expiry.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}
