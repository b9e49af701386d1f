package movement

import (
	"encoding/json"
	"log/slog"
	"net/http"

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

type moveRequest struct {
	UniverseID     int    `json:"universe_id"`
	ToSectorNumber int    `json:"toSectorNumber"`
	Method         Method `json:"method,omitempty"`
}

// Move handles POST /api/move.
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "move")

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}
	if req.Method == "" {
		req.Method = MethodAuto
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.Move(r.Context(), pl.ID, req.ToSectorNumber, req.Method)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

type scanSingleRequest struct {
	UniverseID   int `json:"universe_id"`
	SectorNumber int `json:"sectorNumber"`
}

// ScanSingle handles POST /api/scan/single.
func (h *Handler) ScanSingle(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "scan_single")

	var req scanSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.ScanSingle(r.Context(), pl.ID, req.SectorNumber)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

type scanFullRequest struct {
	UniverseID int `json:"universe_id"`
	Radius     int `json:"radius"`
}

// ScanFull handles POST /api/scan/full.
func (h *Handler) ScanFull(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "scan_full")

	var req scanFullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.ScanFull(r.Context(), pl.ID, req.Radius)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

type scanWarpsRequest struct {
	UniverseID int `json:"universe_id"`
}

// ScanWarps handles POST /api/scan/warps.
func (h *Handler) ScanWarps(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "scan_warps")

	var req scanWarpsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.ScanWarps(r.Context(), pl.ID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}
