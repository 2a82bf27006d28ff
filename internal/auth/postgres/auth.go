package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/leave-management/internal/auth"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

var _ auth.UserRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByLogin prefers a login-name match over an employee-code match.
func (r *Repository) GetByLogin(ctx context.Context, login string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("username = ?", login).First(&u).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return found(&u, err)
	}

	u = userDatamodel.User{}
	err = r.db.WithContext(ctx).Where("employee_code = ?", login).First(&u).Error
	return found(&u, err)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return found(&u, err)
}

func found(u *userDatamodel.User, err error) (*userDatamodel.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}
