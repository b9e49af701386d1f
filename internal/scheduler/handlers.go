package scheduler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"bnt-server/internal/clock"
	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/shared/response"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// TurnGeneration handles POST /cron/turn-generation.
func (h *Handler) TurnGeneration(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, BatchTurnGeneration)
}

// CycleEvents handles POST /cron/cycle-events.
func (h *Handler) CycleEvents(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, BatchCycleEvents)
}

// UpdateEvents handles POST /cron/update-events.
func (h *Handler) UpdateEvents(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, BatchUpdateEvents)
}

func (h *Handler) runBatch(w http.ResponseWriter, r *http.Request, batch Batch) {
	logger := h.logger.With("handler", "cron", "batch", batch)

	result, err := h.service.RunBatch(r.Context(), batch)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

// Status handles GET /api/scheduler/status?universe_id=.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "scheduler_status")

	universeID, err := strconv.Atoi(r.URL.Query().Get("universe_id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("universe_id is required"))
		return
	}

	status, err := h.service.Status(r.Context(), universeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, status)
}

type intervalRequest struct {
	EventKind       clock.EventKind `json:"event_kind"`
	IntervalMinutes int             `json:"interval_minutes"`
}

// SetInterval handles PUT /api/universes/{id}/scheduler/interval.
func (h *Handler) SetInterval(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "scheduler_interval")

	universeID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid universe id"))
		return
	}

	var req intervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	if err := h.service.SetInterval(r.Context(), universeID, req.EventKind, req.IntervalMinutes); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"universe_id":      universeID,
		"event_kind":       req.EventKind,
		"interval_minutes": req.IntervalMinutes,
	})
}

// Runs handles GET /api/scheduler/runs?limit=.
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "scheduler_runs")

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			response.Error(w, r, logger, apperrors.Validation("limit must be between 1 and 500"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.RecentRuns(r.Context(), limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{"runs": entries})
}
