package leave

import (
	"context"
	"net/http"
	"strconv"
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(ctx context.Context, actor *auth.User, dto SubmitLeaveDTO) (*SubmitResult, error)
	ListMine(ctx context.Context, actor *auth.User, filter Filter) ([]*Submission, error)
	ListAll(ctx context.Context, filter Filter) ([]*Submission, error)
	Delete(ctx context.Context, id string) error
	DeletePeriod(ctx context.Context, month, year int) (*PeriodDeleteResult, error)
	Stats(ctx context.Context, actor *auth.User, userID string, year int) (*Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, validator transport.BodyValidator) *Handler {
	base := transport.NewBaseHandler(logger.LoggerWrapper())
	base.Validator = validator
	return &Handler{
		BaseHandler: base,
		Service:     svc,
	}
}

// SubmitLeave handles POST /leave/submissions
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())

	var dto SubmitLeaveDTO
	if err := h.DecodeJSON(r, "SubmitLeaveRequest", &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.Submit(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, result)
}

// ListMySubmissions handles GET /leave/submissions/me?month=&year=
func (h *Handler) ListMySubmissions(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())

	filter, err := h.parseFilter(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	submissions, err := h.Service.ListMine(r.Context(), actor, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SubmissionsResponse{Submissions: submissions, Total: len(submissions)})
}

// ListSubmissions handles GET /leave/submissions?month=&year=
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	submissions, err := h.Service.ListAll(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SubmissionsResponse{Submissions: submissions, Total: len(submissions)})
}

// DeleteSubmission handles DELETE /leave/submissions/{id}
func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Leave submission deleted"})
}

// DeletePeriod handles DELETE /leave/periods/{year}/{month}
func (h *Handler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	year, err := pathInt(r, "year")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	month, err := pathInt(r, "month")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.DeletePeriod(r.Context(), month, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// GetStats handles GET /leave/stats/{user_id}?year=
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.UserFromContext(r.Context())

	year, err := h.QueryInt(r, "year")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if year == nil {
		current := time.Now().Year()
		year = &current
	}

	stats, err := h.Service.Stats(r.Context(), actor, chi.URLParam(r, "user_id"), *year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) parseFilter(r *http.Request) (Filter, error) {
	month, err := h.QueryInt(r, "month")
	if err != nil {
		return Filter{}, err
	}
	year, err := h.QueryInt(r, "year")
	if err != nil {
		return Filter{}, err
	}
	return Filter{Month: month, Year: year}, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, errors.NewValidationFieldError(name, name+" must be an integer", errors.ErrCodeValidationFailed)
	}
	return v, nil
}
