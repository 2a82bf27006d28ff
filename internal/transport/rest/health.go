package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/jmoiron/sqlx"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

// Pinger is an optional dependency that only reports when enabled.
type Pinger interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	*transport.BaseHandler
	db    *sqlx.DB
	cache Pinger
}

func NewHealthHandler(db *sqlx.DB, cache Pinger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: transport.NewBaseHandler(nil),
		db:          db,
		cache:       cache,
	}
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Health handles GET /health. The database is required; redis is reported only when enabled.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]CheckEntry{
		"postgres": check(ctx, func(ctx context.Context) error {
			if h.db == nil {
				return errNotConfigured
			}
			return h.db.PingContext(ctx)
		}),
	}

	if h.cache != nil && h.cache.Enabled() {
		components["redis"] = check(ctx, h.cache.Ping)
	}

	status := http.StatusOK
	overall := HealthHealthy
	if components["postgres"].Status == HealthUnhealthy {
		status = http.StatusServiceUnavailable
		overall = HealthUnhealthy
	}

	h.WriteJSON(w, status, HealthResponse{
		Status:     overall,
		CheckedAt:  time.Now(),
		Components: components,
	})
}

type healthError string

func (e healthError) Error() string { return string(e) }

const errNotConfigured = healthError("not configured")

func check(ctx context.Context, ping func(context.Context) error) CheckEntry {
	start := time.Now()
	entry := CheckEntry{Status: HealthHealthy}
	if err := ping(ctx); err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	entry.CheckedAt = time.Now()
	entry.DurationMs = time.Since(start).Milliseconds()
	return entry
}
