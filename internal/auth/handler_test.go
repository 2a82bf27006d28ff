package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/leave-management/internal/cache"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(rec *httptest.ResponseRecorder) errorEnvelope {
	var env errorEnvelope
	gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(gomega.Succeed())
	return env
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		mockRepo *mockUserRepository
		service  *Service
		handler  *Handler
		rbac     *RBACAuthorization
		hrOnly   http.Handler
		reached  bool
	)

	login := func(username string) string {
		tokens, err := service.Authenticate(context.Background(), LoginDTO{Username: username, Password: "correct_password"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return tokens.AccessToken
	}

	serve := func(h http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen := NewJWTTokenGenerator(testAccessSecret, testRefreshSecret, 15*time.Minute, 24*time.Hour)
		service = NewService(mockRepo, tokenGen, newMemoryTokenStore(), nil)
		handler = NewHandler(service)
		rbac = NewRBACAuthorization(nil)
		reached = false

		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(u.IsHR()).To(gomega.BeTrue())
			reached = true
			w.WriteHeader(http.StatusOK)
		})
		hrOnly = handler.AuthMiddleware(rbac.RequireRole(RoleHR)(inner))
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return tokens for valid credentials", func() {
			body, _ := json.Marshal(LoginDTO{Username: "alice", Password: "correct_password"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("access_token"))
			gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("password"))
		})

		ginkgo.It("should answer 401 for bad credentials", func() {
			body, _ := json.Marshal(LoginDTO{Username: "alice", Password: "nope"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeError(rec).Error.Code).To(gomega.Equal("INVALID_CREDENTIALS"))
		})

		ginkgo.It("should answer 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("AuthMiddleware with RequireRole", func() {
		ginkgo.It("should let HR through", func() {
			rec := serve(hrOnly, login("hana"))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(reached).To(gomega.BeTrue())
		})

		ginkgo.It("should reject an employee on an HR route with 403", func() {
			rec := serve(hrOnly, login("alice"))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeError(rec).Error.Code).To(gomega.Equal("ROLE_NOT_ALLOWED"))
			gomega.Expect(reached).To(gomega.BeFalse())
		})

		ginkgo.It("should reject a missing token with 401", func() {
			rec := serve(hrOnly, "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeError(rec).Error.Code).To(gomega.Equal("MISSING_TOKEN"))
		})

		ginkgo.It("should reject a garbage token with 401", func() {
			rec := serve(hrOnly, "not-a-jwt")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should re-check activation on every request", func() {
			token := login("hana")
			mockRepo.users["u-2"].IsActive = false

			rec := serve(hrOnly, token)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeError(rec).Error.Code).To(gomega.Equal("USER_INACTIVE"))
		})

		ginkgo.It("should reject the token of a deleted user with 401", func() {
			token := login("hana")
			delete(mockRepo.users, "u-2")

			rec := serve(hrOnly, token)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should reject a token after logout", func() {
			token := login("hana")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.Logout(rec, req)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))

			gomega.Expect(serve(hrOnly, token).Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("Logout with an unreachable blacklist", func() {
		var rdb *redis.Client

		ginkgo.BeforeEach(func() {
			rdb = redis.NewClient(&redis.Options{
				Addr:        "127.0.0.1:1",
				DialTimeout: 50 * time.Millisecond,
				MaxRetries:  -1,
			})
			tokenGen := NewJWTTokenGenerator(testAccessSecret, testRefreshSecret, 15*time.Minute, 24*time.Hour)
			service = NewService(mockRepo, tokenGen, NewTokenStore(cache.NewFromRedis(rdb)), nil)
			handler = NewHandler(service)
		})

		ginkgo.AfterEach(func() {
			_ = rdb.Close()
		})

		ginkgo.It("should fail with 500 instead of pretending the token was revoked", func() {
			token := login("hana")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
			gomega.Expect(decodeError(rec).Error.Code).To(gomega.Equal("INTERNAL_ERROR"))
		})

		ginkgo.It("should surface the revoke error from the token store", func() {
			store := NewTokenStore(cache.NewFromRedis(rdb))

			gomega.Expect(store.Revoke(context.Background(), "jti-1", time.Hour)).To(gomega.HaveOccurred())

			revoked, err := store.IsRevoked(context.Background(), "jti-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(revoked).To(gomega.BeFalse())
		})
	})
})
