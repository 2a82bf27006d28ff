package auth

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/leave-management/internal"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	// GetByLogin matches the login name or the employee code. Returns nil when absent.
	GetByLogin(ctx context.Context, login string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, accessToken string) error
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)
	CurrentUser(ctx context.Context, claims *Claims) (*User, error)
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	tokenStore     TokenStore
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, tokenStore TokenStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		tokenStore:     tokenStore,
		logger:         logger,
	}
}

func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.userRepo.GetByLogin(ctx, dto.Username)
	if err != nil {
		s.logger.Error("failed to load credentials", "error", err)
		return nil, errors.ErrInvalidCredentials
	}
	if row == nil {
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	// deactivated accounts fail authentication at login
	if !row.IsActive {
		return nil, errors.NewUnauthorizedError("User account is inactive", errors.ErrCodeUserInactive)
	}

	u := FromDataModel(row)
	s.logger.Info("user authenticated", "user_id", u.ID, "role", u.Role)
	return s.issue(u)
}

func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	if err := (RefreshTokenDTO{RefreshToken: refreshToken}).Validate(); err != nil {
		return nil, err
	}

	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	u, err := s.CurrentUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return nil, errors.NewInternalError("Failed to revoke refresh token", err)
	}

	return s.issue(u)
}

func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if err := s.tokenStore.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return errors.NewInternalError("Failed to revoke token", err)
	}
	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.ErrMissingToken
	}
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// CurrentUser reloads the token's user so deletion and deactivation take effect immediately.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (*User, error) {
	row, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load user", err)
	}
	if row == nil {
		return nil, errors.ErrInvalidToken
	}
	if !row.IsActive {
		return nil, errors.ErrUserInactive
	}
	return FromDataModel(row), nil
}

func (s *Service) checkRevoked(ctx context.Context, claims *Claims) error {
	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("token revocation lookup failed", "error", err)
		return nil
	}
	if revoked {
		return errors.ErrInvalidToken
	}
	return nil
}

func (s *Service) issue(u *User) (*AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(u)
	if err != nil {
		return nil, errors.NewInternalError("Failed to issue access token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(u)
	if err != nil {
		return nil, errors.NewInternalError("Failed to issue refresh token", err)
	}
	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokenGenerator.AccessTokenTTL().Seconds()),
		User:         u,
	}, nil
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		EmployeeCode: u.EmployeeCode,
		Role:         Role(u.Role),
		Department:   u.Department,
		IsActive:     u.IsActive,
	}
}

// HashPassword creates a salted bcrypt hash.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
