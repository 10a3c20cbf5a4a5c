package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/mbressan/identity-service/internal/transport/http/response"
)

// Pinger is anything with a liveness probe, typically *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports process and dependency liveness.
type Health struct {
	db Pinger
}

func NewHealth(db Pinger) *Health {
	return &Health{db: db}
}

func (h *Health) Healthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status["status"] = "degraded"
			status["db"] = "unreachable"
			response.WriteJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["db"] = "ok"
	}

	response.WriteJSON(w, http.StatusOK, status)
}
