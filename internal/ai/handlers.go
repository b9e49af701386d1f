package ai

import (
	"log/slog"
	"net/http"
	"strconv"

	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/shared/response"
)

type Handler struct {
	memory *Repository
	logger *slog.Logger
}

func NewHandler(memory *Repository, logger *slog.Logger) *Handler {
	return &Handler{memory: memory, logger: logger}
}

// Reset handles POST /api/universes/{id}/ai/reset (admin only).
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "ai_reset")

	universeID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid universe id"))
		return
	}

	count, err := h.memory.ResetUniverse(r.Context(), universeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]int{"players_reset": count})
}
