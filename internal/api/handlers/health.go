package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides a liveness check that also pings the database when one is wired.
type HealthHandler struct {
	DB Pinger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.Ping(ctx); err != nil {
			log.Printf("health: db ping failed: %v", err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "db": "disconnected"})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
