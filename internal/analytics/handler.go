package analytics

import (
	"context"
	"net/http"
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	EmployeeSummary(ctx context.Context, actor *auth.User, userID string, month, year int) (*EmployeeSummary, error)
	Overview(ctx context.Context, month, year int) (*OrganizationSummary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

// GetMySummary handles GET /analytics/me?month=&year=
func (h *Handler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, errors.ErrInvalidToken)
		return
	}
	h.writeEmployeeSummary(w, r, actor, actor.ID)
}

// GetEmployeeSummary handles GET /analytics/employees/{id}?month=&year=
func (h *Handler) GetEmployeeSummary(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())
	h.writeEmployeeSummary(w, r, actor, chi.URLParam(r, "id"))
}

// GetOverview handles GET /analytics/overview?month=&year=
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	month, year, err := h.period(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	summary, err := h.Service.Overview(r.Context(), month, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) writeEmployeeSummary(w http.ResponseWriter, r *http.Request, actor *auth.User, userID string) {
	month, year, err := h.period(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	summary, err := h.Service.EmployeeSummary(r.Context(), actor, userID, month, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// period reads month and year, defaulting to the current month.
func (h *Handler) period(r *http.Request) (int, int, error) {
	now := time.Now()

	month, err := h.QueryInt(r, "month")
	if err != nil {
		return 0, 0, err
	}
	year, err := h.QueryInt(r, "year")
	if err != nil {
		return 0, 0, err
	}

	m, y := int(now.Month()), now.Year()
	if month != nil {
		m = *month
	}
	if year != nil {
		y = *year
	}
	return m, y, nil
}
