package ranking

import (
	"log/slog"
	"net/http"
	"strconv"

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

type leaderboardView struct {
	Rankings []*Ranking `json:"rankings"`
}

// Leaderboard handles GET /api/universes/{id}/rankings.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "rankings")

	universeID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid universe id"))
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			response.Error(w, r, logger, apperrors.Validation("limit must be between 1 and 100"))
			return
		}
		limit = parsed
	}

	rankings, err := h.service.Leaderboard(r.Context(), universeID, limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if rankings == nil {
		rankings = []*Ranking{}
	}

	response.Success(w, http.StatusOK, leaderboardView{Rankings: rankings})
}
