package user

import (
	"context"

	errors "github.com/frahmantamala/leave-management/internal"
)

// Seed creates the given accounts, skipping any whose username or employee code already exists.
// It returns the number of accounts created.
func (s *Service) Seed(ctx context.Context, accounts []CreateEmployeeDTO) (int, error) {
	created := 0
	for _, dto := range accounts {
		dto.Normalize()

		byCode, err := s.repo.GetByEmployeeCode(ctx, dto.EmployeeCode)
		if err != nil {
			return created, errors.NewInternalError("Failed to check employee code", err)
		}
		byUsername, err := s.repo.GetByUsername(ctx, dto.Username)
		if err != nil {
			return created, errors.NewInternalError("Failed to check username", err)
		}
		if byCode != nil || byUsername != nil {
			s.logger.Debug("seed account exists, skipping", "employee_code", dto.EmployeeCode)
			continue
		}

		if _, err := s.Create(ctx, dto); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
