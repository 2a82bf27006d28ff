package report

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Export(ctx context.Context, filter leave.Filter) (*Export, error)
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

// ExportSubmissions handles GET /leave/export?month=&year=
func (h *Handler) ExportSubmissions(w http.ResponseWriter, r *http.Request) {
	month, err := h.QueryInt(r, "month")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	year, err := h.QueryInt(r, "year")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	export, err := h.Service.Export(r.Context(), leave.Filter{Month: month, Year: year})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Content); err != nil {
		h.Logger.Error("failed to write export", "error", err)
	}
}
