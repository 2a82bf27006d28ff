package user_test

import (
	"context"
	"testing"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type mockRepository struct {
	users       map[string]*userDatamodel.User
	submissions map[string]int64 // employee code -> submission count
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:       map[string]*userDatamodel.User{},
		submissions: map[string]int64{},
	}
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*userDatamodel.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockRepository) GetByUsername(_ context.Context, username string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) GetByEmployeeCode(_ context.Context, code string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.EmployeeCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) List(_ context.Context, filter user.ListFilter) ([]*userDatamodel.User, error) {
	var out []*userDatamodel.User
	for _, u := range m.users {
		if filter.Role != nil && u.Role != string(*filter.Role) {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *mockRepository) Create(_ context.Context, u *userDatamodel.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockRepository) Update(_ context.Context, u *userDatamodel.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockRepository) SetActive(_ context.Context, id string, active bool) error {
	if u, ok := m.users[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (m *mockRepository) DeleteWithSubmissions(_ context.Context, id, employeeCode string) (int64, error) {
	deleted := m.submissions[employeeCode]
	delete(m.submissions, employeeCode)
	delete(m.users, id)
	return deleted, nil
}

func expectValidationCode(err error, field string, code apperrors.ErrorCode) {
	Expect(err).To(HaveOccurred())
	appErr, ok := apperrors.IsAppError(err)
	Expect(ok).To(BeTrue())
	Expect(appErr.StatusCode).To(Equal(400))
	details, ok := appErr.Details.(apperrors.ValidationErrors)
	Expect(ok).To(BeTrue())
	Expect(details.Errors).To(ContainElement(And(
		HaveField("Field", field),
		HaveField("Code", string(code)),
	)))
}

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		repo    *mockRepository
		service *user.Service
		hr      *auth.User
	)

	validCreate := func() user.CreateEmployeeDTO {
		dept := "Engineering"
		return user.CreateEmployeeDTO{
			Name:         "Priya Sharma",
			Username:     "priya",
			EmployeeCode: "EMP003",
			Password:     "pass1234",
			Department:   &dept,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		service = user.NewService(repo, bcrypt.MinCost, nil)

		hrRow := &userDatamodel.User{ID: "hr-1", Name: "HR Admin", Username: "hradmin", EmployeeCode: "HR001", Role: "hr", IsActive: true}
		Expect(repo.Create(ctx, hrRow)).To(Succeed())
		hr = &auth.User{ID: "hr-1", Role: auth.RoleHR, IsActive: true}
	})

	Describe("Create", func() {
		It("creates an active employee with a hashed password", func() {
			u, err := service.Create(ctx, validCreate())
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).NotTo(BeEmpty())
			Expect(u.Role).To(Equal(auth.RoleEmployee))
			Expect(u.IsActive).To(BeTrue())

			stored := repo.users[u.ID]
			Expect(stored.PasswordHash).NotTo(Equal("pass1234"))
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass1234"))).To(Succeed())
		})

		It("rejects a duplicate employee code naming the field", func() {
			dto := validCreate()
			dto.EmployeeCode = "HR001"

			_, err := service.Create(ctx, dto)
			expectValidationCode(err, "employee_code", apperrors.ErrCodeDuplicateEmployee)
		})

		It("rejects a duplicate username naming the field", func() {
			dto := validCreate()
			dto.Username = "hradmin"

			_, err := service.Create(ctx, dto)
			expectValidationCode(err, "username", apperrors.ErrCodeDuplicateUsername)
		})

		It("rejects an unknown role", func() {
			dto := validCreate()
			dto.Role = "manager"

			_, err := service.Create(ctx, dto)
			expectValidationCode(err, "role", apperrors.ErrCodeInvalidRole)
		})

		It("requires a password of minimum length", func() {
			dto := validCreate()
			dto.Password = "abc"

			_, err := service.Create(ctx, dto)
			expectValidationCode(err, "password", apperrors.ErrCodeValidationFailed)
		})
	})

	Describe("Update", func() {
		var created *user.User

		BeforeEach(func() {
			var err error
			created, err = service.Create(ctx, validCreate())
			Expect(err).NotTo(HaveOccurred())
		})

		It("applies only the provided fields", func() {
			name := "Priya S."
			u, err := service.Update(ctx, hr, created.ID, user.UpdateEmployeeDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Priya S."))
			Expect(u.Username).To(Equal("priya"))
			Expect(*u.Department).To(Equal("Engineering"))
		})

		It("allows keeping the same employee code", func() {
			code := "EMP003"
			_, err := service.Update(ctx, hr, created.ID, user.UpdateEmployeeDTO{EmployeeCode: &code})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects taking another user's employee code", func() {
			code := "HR001"
			_, err := service.Update(ctx, hr, created.ID, user.UpdateEmployeeDTO{EmployeeCode: &code})
			expectValidationCode(err, "employee_code", apperrors.ErrCodeDuplicateEmployee)
		})

		It("returns not found for an unknown id", func() {
			name := "x"
			_, err := service.Update(ctx, hr, "missing", user.UpdateEmployeeDTO{Name: &name})
			Expect(err).To(Equal(apperrors.ErrEmployeeNotFound))
		})

		It("refuses to let HR deactivate themselves", func() {
			inactive := false
			_, err := service.Update(ctx, hr, "hr-1", user.UpdateEmployeeDTO{IsActive: &inactive})
			expectValidationCode(err, "is_active", apperrors.ErrCodeSelfModification)
		})
	})

	Describe("Revoke", func() {
		It("deactivates the employee", func() {
			created, err := service.Create(ctx, validCreate())
			Expect(err).NotTo(HaveOccurred())

			u, err := service.Revoke(ctx, hr, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeFalse())
			Expect(repo.users[created.ID].IsActive).To(BeFalse())
		})

		It("refuses self revocation", func() {
			_, err := service.Revoke(ctx, hr, "hr-1")
			expectValidationCode(err, "id", apperrors.ErrCodeSelfModification)
		})

		It("returns not found for an unknown id", func() {
			_, err := service.Revoke(ctx, hr, "missing")
			Expect(err).To(Equal(apperrors.ErrEmployeeNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes the employee and reports cascaded submissions", func() {
			created, err := service.Create(ctx, validCreate())
			Expect(err).NotTo(HaveOccurred())
			repo.submissions["EMP003"] = 3

			result, err := service.Delete(ctx, hr, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.DeletedSubmissions).To(Equal(int64(3)))
			Expect(repo.users).NotTo(HaveKey(created.ID))

			_, err = service.GetByID(ctx, created.ID)
			Expect(err).To(Equal(apperrors.ErrEmployeeNotFound))
		})

		It("refuses self deletion", func() {
			_, err := service.Delete(ctx, hr, "hr-1")
			expectValidationCode(err, "id", apperrors.ErrCodeSelfModification)
		})
	})

	Describe("Seed", func() {
		accounts := func() []user.CreateEmployeeDTO {
			return []user.CreateEmployeeDTO{
				{Name: "HR Admin", Username: "hradmin", EmployeeCode: "HR001", Password: "hr12345", Role: "hr"},
				{Name: "Tejas Jagdale", Username: "emp001", EmployeeCode: "EMP001", Password: "pass123"},
				{Name: "Aniket Vadar", Username: "emp002", EmployeeCode: "EMP002", Password: "pass123"},
			}
		}

		It("creates missing accounts and skips existing ones", func() {
			created, err := service.Seed(ctx, accounts())
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(Equal(2))
			Expect(repo.users).To(HaveLen(3))
		})

		It("is idempotent", func() {
			_, err := service.Seed(ctx, accounts())
			Expect(err).NotTo(HaveOccurred())

			created, err := service.Seed(ctx, accounts())
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeZero())
			Expect(repo.users).To(HaveLen(3))
		})

		It("defaults seeded accounts to the employee role", func() {
			_, err := service.Seed(ctx, accounts())
			Expect(err).NotTo(HaveOccurred())

			stored, err := repo.GetByEmployeeCode(ctx, "EMP001")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Role).To(Equal("employee"))
			Expect(stored.IsActive).To(BeTrue())
		})
	})
})
