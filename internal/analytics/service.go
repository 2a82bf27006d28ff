package analytics

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/leave"
)

type SubmissionReader interface {
	GetByUserPeriod(ctx context.Context, userID string, month, year int) (*leaveDatamodel.Submission, error)
	List(ctx context.Context, filter leave.Filter) ([]*leaveDatamodel.Submission, error)
}

type EmployeeDirectory interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	CountActiveEmployees(ctx context.Context) (int64, error)
}

type Service struct {
	submissions SubmissionReader
	employees   EmployeeDirectory
	logger      *slog.Logger
}

func NewService(submissions SubmissionReader, employees EmployeeDirectory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		submissions: submissions,
		employees:   employees,
		logger:      logger,
	}
}

// EmployeeSummary returns the period accounting of userID. Employees may only read themselves.
func (s *Service) EmployeeSummary(ctx context.Context, actor *auth.User, userID string, month, year int) (*EmployeeSummary, error) {
	if err := auth.CanAccessEmployee(actor, userID); err != nil {
		return nil, err
	}
	if err := validation.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	u, err := s.employees.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load employee", err)
	}
	if u == nil {
		return nil, errors.ErrEmployeeNotFound
	}

	sub, err := s.submissions.GetByUserPeriod(ctx, userID, month, year)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load leave submission", err)
	}

	summary := SummarizeEmployee(year, month, sub)
	summary.UserID = u.ID
	summary.EmployeeName = u.Name
	summary.EmployeeID = u.EmployeeCode
	return &summary, nil
}

func (s *Service) Overview(ctx context.Context, month, year int) (*OrganizationSummary, error) {
	if err := validation.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	subs, err := s.submissions.List(ctx, leave.Filter{Month: &month, Year: &year})
	if err != nil {
		return nil, errors.NewInternalError("Failed to load leave submissions", err)
	}

	active, err := s.employees.CountActiveEmployees(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to count active employees", err)
	}

	summary := SummarizeOrganization(year, month, subs, active)
	s.logger.Debug("organization summary computed",
		"month", month,
		"year", year,
		"submitted", summary.EmployeesSubmitted,
		"active", active)
	return &summary, nil
}
