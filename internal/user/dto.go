package user

import (
	"strings"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
)

const minPasswordLength = 5

type CreateEmployeeDTO struct {
	Name         string  `json:"name"`
	Username     string  `json:"username"`
	EmployeeCode string  `json:"employee_code"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	Department   *string `json:"department,omitempty"`
}

// UpdateEmployeeDTO is a partial update; nil fields are left unchanged.
type UpdateEmployeeDTO struct {
	Name         *string `json:"name,omitempty"`
	Username     *string `json:"username,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Password     *string `json:"password,omitempty"`
	Role         *string `json:"role,omitempty"`
	Department   *string `json:"department,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type ListFilter struct {
	Role   *auth.Role
	Active *bool
}

type DeleteResult struct {
	Message            string `json:"message"`
	DeletedSubmissions int64  `json:"deleted_submissions"`
}

type EmployeesResponse struct {
	Employees []*User `json:"employees"`
	Total     int     `json:"total"`
}

func (d *CreateEmployeeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Username = strings.TrimSpace(d.Username)
	d.EmployeeCode = strings.TrimSpace(d.EmployeeCode)
	if strings.TrimSpace(d.Role) == "" {
		d.Role = string(auth.RoleEmployee)
	}
}

func (d CreateEmployeeDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).Required().MaxLength(255)
	validator.Field("username", d.Username).Required().MinLength(3).MaxLength(100)
	validator.Field("employee_code", d.EmployeeCode).Required().MaxLength(50)
	validator.Field("password", d.Password).Required().MinLength(minPasswordLength)
	validator.Field("role", strings.ToLower(strings.TrimSpace(d.Role))).OneOf(auth.RoleNames(), errors.ErrCodeInvalidRole)
	return validator.Validate()
}

func (d UpdateEmployeeDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	if d.Name != nil {
		validator.Field("name", *d.Name).Required().MaxLength(255)
	}
	if d.Username != nil {
		validator.Field("username", *d.Username).Required().MinLength(3).MaxLength(100)
	}
	if d.EmployeeCode != nil {
		validator.Field("employee_code", *d.EmployeeCode).Required().MaxLength(50)
	}
	if d.Password != nil {
		validator.Field("password", *d.Password).Required().MinLength(minPasswordLength)
	}
	if d.Role != nil {
		validator.Field("role", strings.ToLower(strings.TrimSpace(*d.Role))).OneOf(auth.RoleNames(), errors.ErrCodeInvalidRole)
	}
	return validator.Validate()
}
