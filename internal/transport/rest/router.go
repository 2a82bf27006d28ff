package rest

import (
	"log/slog"

	"github.com/frahmantamala/leave-management/internal/analytics"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/report"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Health    *HealthHandler
	Auth      *auth.Handler
	Users     *user.Handler
	Leave     *leave.Handler
	Analytics *analytics.Handler
	Reports   *report.Handler
}

type Options struct {
	AllowedOrigins string
	Spec           []byte
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options) {
	rbac := auth.NewRBACAuthorization(opts.Logger)
	employeeOnly := rbac.RequireRole(auth.RoleEmployee)
	hrOnly := rbac.RequireRole(auth.RoleHR)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggingMiddleware(nil))

	if len(opts.Spec) > 0 {
		router.Get(swagger.SpecPath, swagger.SpecHandler(opts.Spec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.With(h.Auth.AuthMiddleware).Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Users != nil {
				pr.Get("/users/me", h.Users.GetCurrentUser)

				pr.Route("/employees", func(er chi.Router) {
					er.Use(hrOnly)
					er.Get("/", h.Users.ListEmployees)
					er.Post("/", h.Users.CreateEmployee)
					er.Get("/{id}", h.Users.GetEmployee)
					er.Put("/{id}", h.Users.UpdateEmployee)
					er.Patch("/{id}/revoke", h.Users.RevokeEmployee)
					er.Delete("/{id}", h.Users.DeleteEmployee)
				})
			}

			pr.Route("/leave", func(lr chi.Router) {
				if h.Leave != nil {
					lr.With(employeeOnly).Post("/submissions", h.Leave.SubmitLeave)
					lr.With(employeeOnly).Get("/submissions/me", h.Leave.ListMySubmissions)
					lr.With(hrOnly).Get("/submissions", h.Leave.ListSubmissions)
					lr.With(hrOnly).Delete("/submissions/{id}", h.Leave.DeleteSubmission)
					lr.With(hrOnly).Delete("/periods/{year}/{month}", h.Leave.DeletePeriod)
					// either role; the service limits employees to their own stats
					lr.Get("/stats/{user_id}", h.Leave.GetStats)
				}
				if h.Reports != nil {
					lr.With(hrOnly).Get("/export", h.Reports.ExportSubmissions)
				}
			})

			if h.Analytics != nil {
				pr.Route("/analytics", func(ar chi.Router) {
					ar.With(employeeOnly).Get("/me", h.Analytics.GetMySummary)
					ar.With(hrOnly).Get("/employees/{id}", h.Analytics.GetEmployeeSummary)
					ar.With(hrOnly).Get("/overview", h.Analytics.GetOverview)
				})
			}
		})
	})
}
