package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// Repository lookups return (nil, nil) when the row does not exist.
type Repository interface {
	// Upsert inserts or overwrites the row keyed by (user_id, month, year) and reloads it into s.
	Upsert(ctx context.Context, s *leaveDatamodel.Submission) (created bool, err error)
	GetByID(ctx context.Context, id string) (*leaveDatamodel.Submission, error)
	GetByUserPeriod(ctx context.Context, userID string, month, year int) (*leaveDatamodel.Submission, error)
	ListByUser(ctx context.Context, userID string, filter Filter) ([]*leaveDatamodel.Submission, error)
	List(ctx context.Context, filter Filter) ([]*leaveDatamodel.Submission, error)
	Delete(ctx context.Context, id string) error
	DeletePeriod(ctx context.Context, month, year int) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Submit applies the one-submission-per-period rule for the calling employee.
func (s *Service) Submit(ctx context.Context, actor *auth.User, dto SubmitLeaveDTO) (*SubmitResult, error) {
	if err := auth.CheckRole(actor, auth.RoleEmployee); err != nil {
		return nil, err
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkOptionalCap(ctx, actor.ID, dto); err != nil {
		return nil, err
	}

	row := &leaveDatamodel.Submission{
		UserID:                 actor.ID,
		EmployeeName:           actor.Name,
		EmployeeID:             actor.EmployeeCode,
		Month:                  dto.Month,
		Year:                   dto.Year,
		MonthlyLeaveDates:      dto.MonthlyLeaveDates,
		OptionalLeaveDates:     dto.OptionalLeaveDates,
		WFHDates:               dto.WFHDates,
		AdditionalHours:        dto.AdditionalHours,
		PendingLeaves:          dto.PendingLeaves,
		TotalDaysOffDates:      dto.TotalDaysOffDates,
		CalculatedTotalDaysOff: CalculateTotalDaysOff(dto.MonthlyLeaveDates, dto.OptionalLeaveDates),
		SubmittedAt:            s.now(),
	}

	created, err := s.repo.Upsert(ctx, row)
	if err != nil {
		s.logger.Error("failed to upsert leave submission", "error", err, "user_id", actor.ID, "month", dto.Month, "year", dto.Year)
		return nil, errors.NewInternalError("Failed to save leave submission", err)
	}

	message := MessageUpdated
	if created {
		message = MessageCreated
	}

	s.logger.Info("leave submission saved",
		"submission_id", row.ID,
		"user_id", actor.ID,
		"month", row.Month,
		"year", row.Year,
		"created", created)

	return &SubmitResult{
		Message:    message,
		Created:    created,
		Submission: FromDataModel(row),
	}, nil
}

func (s *Service) ListMine(ctx context.Context, actor *auth.User, filter Filter) ([]*Submission, error) {
	if err := auth.CheckRole(actor, auth.RoleEmployee); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByUser(ctx, actor.ID, filter)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list leave submissions", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) ListAll(ctx context.Context, filter Filter) ([]*Submission, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list leave submissions", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.NewInternalError("Failed to load leave submission", err)
	}
	if row == nil {
		return errors.ErrSubmissionNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("Failed to delete leave submission", err)
	}

	s.logger.Info("leave submission deleted", "submission_id", id, "user_id", row.UserID)
	return nil
}

// DeletePeriod clears every employee's submission for one month.
func (s *Service) DeletePeriod(ctx context.Context, month, year int) (*PeriodDeleteResult, error) {
	if err := validation.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeletePeriod(ctx, month, year)
	if err != nil {
		return nil, errors.NewInternalError("Failed to delete period submissions", err)
	}

	s.logger.Info("leave period deleted", "month", month, "year", year, "deleted", deleted)
	return &PeriodDeleteResult{
		Message: fmt.Sprintf("Deleted %d submissions for %02d/%d", deleted, month, year),
		Month:   month,
		Year:    year,
		Deleted: deleted,
	}, nil
}

// Stats reports optional leave usage for one user and year.
func (s *Service) Stats(ctx context.Context, actor *auth.User, userID string, year int) (*Stats, error) {
	if err := auth.CanAccessEmployee(actor, userID); err != nil {
		return nil, err
	}
	filter := Filter{Year: &year}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load leave statistics", err)
	}

	used := 0
	for _, r := range rows {
		used += len(r.OptionalLeaveDates)
	}

	return &Stats{
		UserID:                  userID,
		Year:                    year,
		TotalOptionalLeavesUsed: used,
		RemainingOptionalLeaves: max(0, OptionalLeaveCap-used),
		SubmissionsCount:        len(rows),
	}, nil
}

// checkOptionalCap sums optional dates from the user's other periods in the year plus this payload.
func (s *Service) checkOptionalCap(ctx context.Context, userID string, dto SubmitLeaveDTO) error {
	year := dto.Year
	rows, err := s.repo.ListByUser(ctx, userID, Filter{Year: &year})
	if err != nil {
		return errors.NewInternalError("Failed to check optional leave balance", err)
	}

	used := 0
	for _, r := range rows {
		if r.Month == dto.Month {
			continue
		}
		used += len(r.OptionalLeaveDates)
	}

	if used+len(dto.OptionalLeaveDates) > OptionalLeaveCap {
		return errors.NewValidationFieldError("optional_leave_dates",
			fmt.Sprintf("optional leave cap of %d per year exceeded: %d already used in %d", OptionalLeaveCap, used, year),
			errors.ErrCodeOptionalLeaveCap)
	}
	return nil
}
