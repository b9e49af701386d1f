package universe

import (
	"encoding/json"
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

// Create handles POST /api/universes (admin only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "universe_create")

	var params CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	u, err := h.service.Create(r.Context(), params)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, u)
}

// List handles GET /api/universes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "universe_list")

	universes, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if universes == nil {
		universes = []*Universe{}
	}

	response.Success(w, http.StatusOK, map[string]interface{}{"universes": universes})
}

// Get handles GET /api/universes/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "universe_get")

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid universe id"))
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, u)
}

// Delete handles DELETE /api/universes/{id} (admin only).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "universe_delete")

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid universe id"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}
