package player

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"bnt-server/internal/middleware"
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

type joinRequest struct {
	Handle string `json:"handle"`
}

type playerView struct {
	Player *Player `json:"player"`
	Ship   *Ship   `json:"ship"`
}

type meView struct {
	Player         *Player `json:"player"`
	Ship           *Ship   `json:"ship"`
	SectorsVisited int     `json:"sectors_visited"`
}

// Join handles POST /api/universes/{id}/players.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "player_join")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, apperrors.Unauthorized("authentication required"))
		return
	}

	universeID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid universe id"))
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	startSectorID, err := h.service.startSector(r.Context(), universeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	p, err := h.service.Join(r.Context(), universeID, claims.UserID, req.Handle, startSectorID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ship, err := h.service.GetShip(r.Context(), p.ID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, playerView{Player: p, Ship: ship})
}

// Me handles GET /api/players/me?universe_id=.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "player_me")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, apperrors.Unauthorized("authentication required"))
		return
	}

	universeID, err := strconv.Atoi(r.URL.Query().Get("universe_id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("universe_id is required"))
		return
	}

	p, err := h.service.GetByUser(r.Context(), universeID, claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ship, err := h.service.GetShip(r.Context(), p.ID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	visited, err := h.service.SectorsVisited(r.Context(), p.ID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, meView{Player: p, Ship: ship, SectorsVisited: visited})
}
