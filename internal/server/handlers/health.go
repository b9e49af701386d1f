package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"bnt-server/internal/shared/database"
	"bnt-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	UptimeSec int64  `json:"uptime_sec"`
}

type HealthHandler struct {
	db      *database.DB
	started time.Time
}

func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// ServeHTTP reports liveness plus database reachability. A dead database
// degrades the status and the HTTP code so load balancers stop routing
// game traffic here.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	status := "healthy"
	statusCode := http.StatusOK
	dbStatus := "connected"
	if err := h.db.PingContext(r.Context()); err != nil {
		logger.Warn("Database ping failed", "error", err)
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
		dbStatus = "disconnected"
	}

	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		UptimeSec: int64(time.Since(h.started).Seconds()),
	}

	response.Success(w, statusCode, resp)
}
