package postgres

import (
	"context"
	"errors"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) GetByEmployeeCode(ctx context.Context, code string) (*userDatamodel.User, error) {
	return r.first(ctx, "employee_code = ?", code)
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*userDatamodel.User, error) {
	query := r.db.WithContext(ctx).Model(&userDatamodel.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", string(*filter.Role))
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}

	var users []*userDatamodel.User
	err := query.Order("name ASC").Order("employee_code ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// Update saves the user. A changed employee code is carried over to the user's submissions
// in the same transaction so they stay attached for listing, export and cascade delete.
func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous []string
		if err := tx.Model(&userDatamodel.User{}).
			Where("id = ?", u.ID).
			Pluck("employee_code", &previous).Error; err != nil {
			return err
		}

		if err := tx.Save(u).Error; err != nil {
			return err
		}

		if len(previous) == 0 || previous[0] == u.EmployeeCode {
			return nil
		}
		return tx.Model(&leaveDatamodel.Submission{}).
			Where("user_id = ?", u.ID).
			Update("employee_id", u.EmployeeCode).Error
	})
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *UserRepository) DeleteWithSubmissions(ctx context.Context, id, employeeCode string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? OR employee_id = ?", id, employeeCode).Delete(&leaveDatamodel.Submission{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		return tx.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
	})
	return deleted, err
}

// CountActiveEmployees counts users with role employee that still have access.
func (r *UserRepository) CountActiveEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("role = ? AND is_active = ?", "employee", true).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
