package combat

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

func (h *Handler) resolvePlayer(r *http.Request, universeID int) (*player.Player, error) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if universeID <= 0 {
		return nil, apperrors.Validation("universe_id is required")
	}
	return h.players.GetByUser(r.Context(), universeID, claims.UserID)
}

type deployMinesRequest struct {
	UniverseID     int `json:"universe_id"`
	SectorNumber   int `json:"sector_number"`
	TorpedoesToUse int `json:"torpedoes_to_use"`
}

// DeployMines handles POST /api/mines/deploy.
func (h *Handler) DeployMines(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "mines_deploy")

	var req deployMinesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}
	if req.SectorNumber < 1 {
		response.Error(w, r, logger, apperrors.Validation("sector_number is required"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.service.DeployMines(r.Context(), pl.ID, req.SectorNumber, req.TorpedoesToUse)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]int{"mines_created": created})
}

type attackRequest struct {
	UniverseID     int `json:"universe_id"`
	TargetPlayerID int `json:"target_player_id"`
}

// Attack handles POST /api/combat/attack.
func (h *Handler) Attack(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "combat_attack")

	var req attackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.Attack(r.Context(), pl.ID, req.TargetPlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

type captureRequest struct {
	UniverseID int `json:"universe_id"`
}

// CapturePlanet handles POST /api/planets/{id}/capture.
func (h *Handler) CapturePlanet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "planet_capture")

	planetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid planet id"))
		return
	}

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	captured, err := h.service.CapturePlanet(r.Context(), pl.ID, planetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{"planet": captured})
}

// BombardPlanet handles POST /api/planets/{id}/bombard.
func (h *Handler) BombardPlanet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "planet_bombard")

	planetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid planet id"))
		return
	}

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.BombardPlanet(r.Context(), pl.ID, planetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}
