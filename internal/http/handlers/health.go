package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/taskboard/internal/http/respond"
)

// Version is reported by the health and root endpoints.
const Version = "1.0.0"

// HealthHandler returns uptime and basic status.
type HealthHandler struct {
	startedAt time.Time
	rw        *respond.Writer
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, rw *respond.Writer) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, rw: rw}
}

// Routes wires the handler into a router.
func (h *HealthHandler) Routes(r chi.Router) {
	r.Get("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	h.rw.JSON(w, http.StatusOK, "API is running", map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"uptime":    time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

// Root describes the API at "/".
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.rw.JSON(w, http.StatusOK, "Task Management API", map[string]string{
		"version":     Version,
		"healthCheck": "/api/v1/health",
	})
}
