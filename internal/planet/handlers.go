package planet

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"bnt-server/internal/middleware"
	"bnt-server/internal/player"
	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/shared/response"
)

type Handler struct {
	service *Service
	players *player.Service
	logger  *slog.Logger
}

func NewHandler(service *Service, players *player.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, players: players, logger: logger}
}

type genesisRequest struct {
	UniverseID int `json:"universe_id"`
}

// Genesis handles POST /api/planets/genesis.
func (h *Handler) Genesis(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "planet_genesis")

	var req genesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, apperrors.Unauthorized("authentication required"))
		return
	}
	if req.UniverseID <= 0 {
		response.Error(w, r, logger, apperrors.Validation("universe_id is required"))
		return
	}

	pl, err := h.players.GetByUser(r.Context(), req.UniverseID, claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.service.Genesis(r.Context(), pl.ID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, map[string]interface{}{"planet": created})
}

type allocationRequest struct {
	UniverseID int        `json:"universe_id"`
	Allocation Allocation `json:"allocation"`
}

// SetAllocation handles PUT /api/planets/{id}/allocation.
func (h *Handler) SetAllocation(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "planet_allocation")

	planetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid planet id"))
		return
	}

	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, apperrors.Unauthorized("authentication required"))
		return
	}
	if req.UniverseID <= 0 {
		response.Error(w, r, logger, apperrors.Validation("universe_id is required"))
		return
	}

	pl, err := h.players.GetByUser(r.Context(), req.UniverseID, claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	applied, err := h.service.SetAllocation(r.Context(), pl.ID, planetID, req.Allocation)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{"allocation": applied})
}
