package rest

import (
	"encoding/json"
	"net/http"
	"time"
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
	Status    HealthStatus   `json:"status"`
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CheckedAt time.Time      `json:"checked_at"`
}

// SessionCounter reports the number of open ledger sessions.
type SessionCounter interface {
	ActiveSessions() int
}

type HealthHandler struct {
	sessions    SessionCounter
	maxSessions int
}

func NewHealthHandler(sessions SessionCounter, maxSessions int) *HealthHandler {
	return &HealthHandler{sessions: sessions, maxSessions: maxSessions}
}

// pingHandler just says the service is up
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "OK"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// healthCheckHandler reports unhealthy once the session registry is full,
// since new visitors can no longer start a ledger.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	active := h.sessions.ActiveSessions()

	entry := CheckEntry{
		Status:    HealthHealthy,
		CheckedAt: time.Now(),
		Details: map[string]any{
			"active":       active,
			"max_sessions": h.maxSessions,
		},
	}

	if h.maxSessions > 0 && active >= h.maxSessions {
		entry.Status = HealthUnhealthy
		entry.Message = "session limit reached"
	}

	resp := HealthResponse{
		Status:     entry.Status,
		CheckedAt:  time.Now(),
		Components: map[string]CheckEntry{"sessions": entry},
	}

	statusCode := http.StatusOK
	if entry.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
