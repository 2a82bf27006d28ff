package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

// Repository lookups return (nil, nil) when the row does not exist.
type Repository interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	GetByEmployeeCode(ctx context.Context, code string) (*userDatamodel.User, error)
	List(ctx context.Context, filter ListFilter) ([]*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	// Update saves the user; a changed employee code is applied to the user's submissions too.
	Update(ctx context.Context, u *userDatamodel.User) error
	SetActive(ctx context.Context, id string, active bool) error
	// DeleteWithSubmissions removes the user and every submission filed by that user or under its employee code.
	DeleteWithSubmissions(ctx context.Context, id, employeeCode string) (int64, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load employee", err)
	}
	if row == nil {
		return nil, errors.ErrEmployeeNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list employees", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := auth.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, "", dto.Username, dto.EmployeeCode); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("Failed to hash password", err)
	}

	row := &userDatamodel.User{
		Name:         dto.Name,
		Username:     dto.Username,
		EmployeeCode: dto.EmployeeCode,
		PasswordHash: hash,
		Role:         string(role),
		Department:   normalizeDepartment(dto.Department),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.NewInternalError("Failed to create employee", err)
	}

	s.logger.Info("employee created", "user_id", row.ID, "employee_code", row.EmployeeCode, "role", row.Role)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actor *auth.User, id string, dto UpdateEmployeeDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load employee", err)
	}
	if row == nil {
		return nil, errors.ErrEmployeeNotFound
	}

	if dto.Name != nil {
		row.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Department != nil {
		row.Department = normalizeDepartment(dto.Department)
	}

	username, code := row.Username, row.EmployeeCode
	if dto.Username != nil {
		username = strings.TrimSpace(*dto.Username)
	}
	if dto.EmployeeCode != nil {
		code = strings.TrimSpace(*dto.EmployeeCode)
	}
	if err := s.ensureUnique(ctx, row.ID, username, code); err != nil {
		return nil, err
	}
	row.Username, row.EmployeeCode = username, code

	if dto.Role != nil {
		role, err := auth.ParseRole(*dto.Role)
		if err != nil {
			return nil, err
		}
		if actor != nil && actor.ID == row.ID && role != auth.Role(row.Role) {
			return nil, errors.NewValidationFieldError("role", "You cannot change your own role", errors.ErrCodeSelfModification)
		}
		row.Role = string(role)
	}

	if dto.IsActive != nil {
		if actor != nil && actor.ID == row.ID && !*dto.IsActive {
			return nil, errors.NewValidationFieldError("is_active", "You cannot revoke your own access", errors.ErrCodeSelfModification)
		}
		row.IsActive = *dto.IsActive
	}

	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, s.bcryptCost)
		if err != nil {
			return nil, errors.NewInternalError("Failed to hash password", err)
		}
		row.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, errors.NewInternalError("Failed to update employee", err)
	}

	s.logger.Info("employee updated", "user_id", row.ID)
	return FromDataModel(row), nil
}

// Revoke deactivates the account; the user keeps their data but can no longer sign in.
func (s *Service) Revoke(ctx context.Context, actor *auth.User, id string) (*User, error) {
	if actor != nil && actor.ID == id {
		return nil, errors.NewValidationFieldError("id", "You cannot revoke your own access", errors.ErrCodeSelfModification)
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load employee", err)
	}
	if row == nil {
		return nil, errors.ErrEmployeeNotFound
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return nil, errors.NewInternalError("Failed to revoke access", err)
	}
	row.IsActive = false

	s.logger.Info("employee access revoked", "user_id", id, "by", actorID(actor))
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, actor *auth.User, id string) (*DeleteResult, error) {
	if actor != nil && actor.ID == id {
		return nil, errors.NewValidationFieldError("id", "You cannot delete your own account", errors.ErrCodeSelfModification)
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load employee", err)
	}
	if row == nil {
		return nil, errors.ErrEmployeeNotFound
	}

	deleted, err := s.repo.DeleteWithSubmissions(ctx, row.ID, row.EmployeeCode)
	if err != nil {
		return nil, errors.NewInternalError("Failed to delete employee", err)
	}

	s.logger.Info("employee deleted",
		"user_id", row.ID,
		"employee_code", row.EmployeeCode,
		"deleted_submissions", deleted,
		"by", actorID(actor))

	return &DeleteResult{
		Message:            fmt.Sprintf("Employee %s deleted", row.EmployeeCode),
		DeletedSubmissions: deleted,
	}, nil
}

func (s *Service) ensureUnique(ctx context.Context, selfID, username, code string) error {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return errors.NewInternalError("Failed to check username", err)
	}
	if existing != nil && existing.ID != selfID {
		return errors.NewValidationFieldError("username", fmt.Sprintf("Username %q is already taken", username), errors.ErrCodeDuplicateUsername)
	}

	existing, err = s.repo.GetByEmployeeCode(ctx, code)
	if err != nil {
		return errors.NewInternalError("Failed to check employee code", err)
	}
	if existing != nil && existing.ID != selfID {
		return errors.NewValidationFieldError("employee_code", fmt.Sprintf("Employee code %q already exists", code), errors.ErrCodeDuplicateEmployee)
	}
	return nil
}

func normalizeDepartment(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func actorID(u *auth.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
