package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/leave-management/api"
	"github.com/frahmantamala/leave-management/internal/analytics"
	"github.com/frahmantamala/leave-management/internal/auth"
	authPostgres "github.com/frahmantamala/leave-management/internal/auth/postgres"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/report"
	"github.com/frahmantamala/leave-management/internal/transport/openapi"
	"github.com/frahmantamala/leave-management/internal/transport/rest"
	"github.com/frahmantamala/leave-management/internal/user"
	userPostgres "github.com/frahmantamala/leave-management/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Suite")
}

const (
	accessSecret  = "access-secret-for-tests-0123456789abcdef"
	refreshSecret = "refresh-secret-for-tests-0123456789abcdef"
)

type envelope struct {
	Error struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"error"`
}

var _ = Describe("Router", func() {
	var (
		router *chi.Mux
		users  *userPostgres.UserRepository
		tejas  *userDatamodel.User
	)

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			switch b := body.(type) {
			case string:
				buf.WriteString(b)
			default:
				Expect(json.NewEncoder(&buf).Encode(b)).To(Succeed())
			}
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v interface{}) {
		ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	errorCode := func(rec *httptest.ResponseRecorder) string {
		var env envelope
		decode(rec, &env)
		return env.Error.Code
	}

	login := func(username, password string) string {
		rec := do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
		ExpectWithOffset(1, rec.Code).To(Equal(http.StatusOK))
		var tokens auth.AuthTokens
		decode(rec, &tokens)
		return tokens.AccessToken
	}

	submission := map[string]interface{}{
		"month":                2,
		"year":                 2025,
		"monthly_leave_dates":  []string{"2025-02-03", "2025-02-04"},
		"optional_leave_dates": []string{"2025-02-05"},
		"wfh_dates":            []string{"2025-02-10"},
		"additional_hours":     "",
		"pending_leaves":       2,
		"total_days_off_dates": []string{"2025-02-03", "2025-02-04", "2025-02-05"},
	}

	BeforeEach(func() {
		ctx := context.Background()
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{}, &leaveDatamodel.Submission{})).To(Succeed())

		users = userPostgres.NewUserRepository(db)
		seed := func(name, username, code, role, password string) *userDatamodel.User {
			hash, err := auth.HashPassword(password, bcrypt.MinCost)
			Expect(err).NotTo(HaveOccurred())
			u := &userDatamodel.User{Name: name, Username: username, EmployeeCode: code, PasswordHash: hash, Role: role, IsActive: true}
			Expect(users.Create(ctx, u)).To(Succeed())
			return u
		}
		seed("HR Admin", "hr001", "HR001", "hr", "hr123")
		tejas = seed("Tejas Jagdale", "emp001", "EMP001", "employee", "pass123")
		seed("Aniket Vadar", "emp002", "EMP002", "employee", "pass123")

		validator, err := openapi.NewValidator(ctx, api.Spec)
		Expect(err).NotTo(HaveOccurred())

		submissions := leavePostgres.NewSubmissionRepository(db)
		tokens := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 24*time.Hour)
		authService := auth.NewService(authPostgres.NewRepository(db), tokens, auth.NewTokenStore(nil), nil)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Handlers{
			Auth:      auth.NewHandler(authService),
			Users:     user.NewHandler(user.NewService(users, bcrypt.MinCost, nil), validator),
			Leave:     leave.NewHandler(leave.NewService(submissions, nil), validator),
			Analytics: analytics.NewHandler(analytics.NewService(submissions, users, nil)),
			Reports:   report.NewHandler(report.NewService(submissions, nil, nil)),
		}, rest.Options{AllowedOrigins: "*", Spec: api.Spec})
	})

	It("serves the OpenAPI document", func() {
		rec := do(http.MethodGet, "/openapi.yml", "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})

	It("rejects protected calls without a token", func() {
		rec := do(http.MethodGet, "/api/v1/users/me", "", nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(errorCode(rec)).To(Equal("MISSING_TOKEN"))
	})

	It("logs in by employee code as well as username", func() {
		Expect(login("EMP001", "pass123")).NotTo(BeEmpty())
	})

	It("upserts one submission per period", func() {
		token := login("emp001", "pass123")

		rec := do(http.MethodPost, "/api/v1/leave/submissions", token, submission)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var first leave.SubmitResult
		decode(rec, &first)
		Expect(first.Message).To(Equal(leave.MessageCreated))
		Expect(first.Submission.CalculatedTotalDaysOff).To(Equal(3))

		second := map[string]interface{}{
			"month":               2,
			"year":                2025,
			"monthly_leave_dates": []string{"2025-02-20"},
			"wfh_dates":           []string{},
		}
		rec = do(http.MethodPost, "/api/v1/leave/submissions", token, second)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var updated leave.SubmitResult
		decode(rec, &updated)
		Expect(updated.Message).To(Equal(leave.MessageUpdated))
		Expect(updated.Submission.CalculatedTotalDaysOff).To(Equal(1))

		rec = do(http.MethodGet, "/api/v1/leave/submissions/me?month=2&year=2025", token, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var mine leave.SubmissionsResponse
		decode(rec, &mine)
		Expect(mine.Submissions).To(HaveLen(1))
		Expect(mine.Submissions[0].MonthlyLeaveDates).To(Equal([]string{"2025-02-20"}))
	})

	It("rejects bodies that do not match the schema", func() {
		token := login("emp001", "pass123")
		rec := do(http.MethodPost, "/api/v1/leave/submissions", token, `{"month":"feb","year":2025}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("keeps each endpoint to its role", func() {
		hrToken := login("hr001", "hr123")
		empToken := login("emp001", "pass123")

		rec := do(http.MethodPost, "/api/v1/leave/submissions", hrToken, submission)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(errorCode(rec)).To(Equal("ROLE_NOT_ALLOWED"))

		rec = do(http.MethodGet, "/api/v1/leave/submissions", empToken, nil)
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		rec = do(http.MethodGet, "/api/v1/employees", empToken, nil)
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		rec = do(http.MethodGet, "/api/v1/employees", hrToken, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("reports period accounting", func() {
		empToken := login("emp001", "pass123")
		hrToken := login("hr001", "hr123")
		Expect(do(http.MethodPost, "/api/v1/leave/submissions", empToken, submission).Code).To(Equal(http.StatusCreated))

		rec := do(http.MethodGet, "/api/v1/analytics/me?month=2&year=2025", empToken, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var mine analytics.EmployeeSummary
		decode(rec, &mine)
		Expect(mine.LeaveDays).To(Equal(6))
		Expect(mine.WFHDays).To(Equal(1))
		Expect(mine.WorkingDays).To(Equal(14))

		rec = do(http.MethodGet, "/api/v1/analytics/overview?month=2&year=2025", hrToken, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var org analytics.OrganizationSummary
		decode(rec, &org)
		Expect(org.EmployeesSubmitted).To(Equal(1))
		Expect(org.ActiveEmployees).To(Equal(int64(2)))
		Expect(org.SubmissionRate).To(Equal(50.0))

		rec = do(http.MethodGet, "/api/v1/analytics/overview?month=13&year=2025", hrToken, nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		rec = do(http.MethodGet, "/api/v1/analytics/employees/missing?month=2&year=2025", hrToken, nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("exports submissions as a spreadsheet", func() {
		empToken := login("emp001", "pass123")
		hrToken := login("hr001", "hr123")

		rec := do(http.MethodGet, "/api/v1/leave/export", hrToken, nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		Expect(do(http.MethodPost, "/api/v1/leave/submissions", empToken, submission).Code).To(Equal(http.StatusCreated))

		rec = do(http.MethodGet, "/api/v1/leave/export?month=2&year=2025", hrToken, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal(report.ContentType))
		Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("leave_submissions.xlsx"))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("cascades employee deletion to their submissions", func() {
		empToken := login("emp001", "pass123")
		hrToken := login("hr001", "hr123")
		Expect(do(http.MethodPost, "/api/v1/leave/submissions", empToken, submission).Code).To(Equal(http.StatusCreated))

		rec := do(http.MethodDelete, "/api/v1/employees/"+tejas.ID, hrToken, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var result user.DeleteResult
		decode(rec, &result)
		Expect(result.DeletedSubmissions).To(Equal(int64(1)))

		rec = do(http.MethodGet, "/api/v1/leave/submissions", hrToken, nil)
		var all leave.SubmissionsResponse
		decode(rec, &all)
		Expect(all.Submissions).To(BeEmpty())

		rec = do(http.MethodGet, "/api/v1/users/me", empToken, nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("locks out a revoked employee on the next request", func() {
		empToken := login("emp001", "pass123")
		hrToken := login("hr001", "hr123")

		rec := do(http.MethodPatch, "/api/v1/employees/"+tejas.ID+"/revoke", hrToken, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = do(http.MethodPost, "/api/v1/leave/submissions", empToken, submission)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(errorCode(rec)).To(Equal("USER_INACTIVE"))

		rec = do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "emp001", "password": "pass123"})
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(errorCode(rec)).To(Equal("USER_INACTIVE"))
	})
})
