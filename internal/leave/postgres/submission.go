package postgres

import (
	"context"
	"errors"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertColumns are overwritten when a period is resubmitted; id, user_id and created_at are kept.
var upsertColumns = []string{
	"employee_name",
	"employee_id",
	"monthly_leave_dates",
	"optional_leave_dates",
	"wfh_dates",
	"additional_hours",
	"pending_leaves",
	"total_days_off_dates",
	"calculated_total_days_off",
	"submitted_at",
	"updated_at",
}

type SubmissionRepository struct {
	db *gorm.DB
}

var _ leave.Repository = (*SubmissionRepository)(nil)

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Upsert relies on the unique (user_id, month, year) index so concurrent submissions converge on one row.
// created is true only when the row now stored carries the id generated here, i.e. this statement inserted it.
func (r *SubmissionRepository) Upsert(ctx context.Context, s *leaveDatamodel.Submission) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidate := uuid.NewString()
		s.ID = candidate
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "month"},
				{Name: "year"},
			},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(s).Error; err != nil {
			return err
		}

		var stored leaveDatamodel.Submission
		if err := tx.Where("user_id = ? AND month = ? AND year = ?", s.UserID, s.Month, s.Year).
			First(&stored).Error; err != nil {
			return err
		}
		created = stored.ID == candidate
		*s = stored
		return nil
	})
	return created, err
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*leaveDatamodel.Submission, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *SubmissionRepository) GetByUserPeriod(ctx context.Context, userID string, month, year int) (*leaveDatamodel.Submission, error) {
	return r.first(r.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year))
}

func (r *SubmissionRepository) ListByUser(ctx context.Context, userID string, filter leave.Filter) ([]*leaveDatamodel.Submission, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID), filter)
}

func (r *SubmissionRepository) List(ctx context.Context, filter leave.Filter) ([]*leaveDatamodel.Submission, error) {
	return r.list(r.db.WithContext(ctx), filter)
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&leaveDatamodel.Submission{}).Error
}

func (r *SubmissionRepository) DeletePeriod(ctx context.Context, month, year int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		Delete(&leaveDatamodel.Submission{})
	return res.RowsAffected, res.Error
}

func (r *SubmissionRepository) list(query *gorm.DB, filter leave.Filter) ([]*leaveDatamodel.Submission, error) {
	if filter.Month != nil {
		query = query.Where("month = ?", *filter.Month)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}

	var rows []*leaveDatamodel.Submission
	err := query.
		Order("year DESC").
		Order("month DESC").
		Order("employee_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *SubmissionRepository) first(query *gorm.DB) (*leaveDatamodel.Submission, error) {
	var s leaveDatamodel.Submission
	if err := query.First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
