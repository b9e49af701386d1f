package trade

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"bnt-server/internal/middleware"
	"bnt-server/internal/player"
	"bnt-server/internal/port"
	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/shared/response"
)

type Handler struct {
	trades  *Service
	routes  *RouteRepository
	runner  *RouteRunner
	players *player.Service
	logger  *slog.Logger
}

func NewHandler(trades *Service, routes *RouteRepository, runner *RouteRunner, players *player.Service, logger *slog.Logger) *Handler {
	return &Handler{
		trades:  trades,
		routes:  routes,
		runner:  runner,
		players: players,
		logger:  logger,
	}
}

// resolvePlayer maps the authenticated user to their player in the
// universe named by the request.
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

type tradeRequest struct {
	UniverseID int           `json:"universe_id"`
	PortID     int           `json:"portId"`
	Action     Action        `json:"action"`
	Resource   port.Resource `json:"resource"`
	Qty        int64         `json:"qty"`
}

// Trade handles POST /api/trade.
func (h *Handler) Trade(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "trade")

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}
	if !ValidAction(req.Action) {
		response.Error(w, r, logger, apperrors.Validationf("unknown trade action %q", req.Action))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.trades.Execute(r.Context(), pl.ID, req.PortID, req.Action, req.Resource, req.Qty)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

type autoTradeRequest struct {
	UniverseID int `json:"universe_id"`
	PortID     int `json:"portId"`
}

// AutoTrade handles POST /api/trade/auto.
func (h *Handler) AutoTrade(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "trade_auto")

	var req autoTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.trades.Auto(r.Context(), pl.ID, req.PortID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

type waypointRequest struct {
	PortID   int            `json:"port_id"`
	Action   Action         `json:"action"`
	Resource *port.Resource `json:"resource,omitempty"`
	Quantity *int64         `json:"quantity,omitempty"`
}

type createRouteRequest struct {
	UniverseID    int               `json:"universe_id"`
	Name          string            `json:"name"`
	MaxIterations int               `json:"max_iterations"`
	Waypoints     []waypointRequest `json:"waypoints"`
}

// CreateRoute handles POST /api/routes.
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "route_create")

	var req createRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	waypoints := make([]Waypoint, len(req.Waypoints))
	for i, w := range req.Waypoints {
		waypoints[i] = Waypoint{
			PortID:   w.PortID,
			Action:   w.Action,
			Resource: w.Resource,
			Quantity: w.Quantity,
		}
	}

	route, err := h.routes.Create(r.Context(), pl.ID, req.Name, req.MaxIterations, waypoints)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, route)
}

// ListRoutes handles GET /api/routes?universe_id=.
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "route_list")

	universeID, err := strconv.Atoi(r.URL.Query().Get("universe_id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("universe_id is required"))
		return
	}

	pl, err := h.resolvePlayer(r, universeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	routes, err := h.routes.ListByPlayer(r.Context(), pl.ID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if routes == nil {
		routes = []*Route{}
	}

	response.Success(w, http.StatusOK, map[string]interface{}{"routes": routes})
}

type executeRouteRequest struct {
	UniverseID int `json:"universe_id"`
}

// ExecuteRoute handles POST /api/routes/{id}/execute.
func (h *Handler) ExecuteRoute(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "route_execute")

	routeID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid route id"))
		return
	}

	var req executeRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	pl, err := h.resolvePlayer(r, req.UniverseID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.runner.Run(r.Context(), routeID, pl.ID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

// DeleteRoute handles DELETE /api/routes/{id}.
func (h *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "route_delete")

	routeID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid route id"))
		return
	}

	universeID, err := strconv.Atoi(r.URL.Query().Get("universe_id"))
	if err != nil {
		response.Error(w, r, logger, apperrors.Validation("universe_id is required"))
		return
	}

	pl, err := h.resolvePlayer(r, universeID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.routes.Delete(r.Context(), routeID, pl.ID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}
