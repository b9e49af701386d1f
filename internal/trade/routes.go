package trade

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"bnt-server/internal/port"
	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
)

const maxWaypointsPerRoute = 20

// Navigator moves a player to a sector, charging whatever turns the jump
// costs. The movement engine implements it; the indirection keeps route
// execution from depending on that package directly.
type Navigator interface {
	JumpToSector(ctx context.Context, playerID, sectorID int) error
}

// RouteRepository persists saved trade routes and their waypoints.
type RouteRepository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRouteRepository(db *database.DB, logger *slog.Logger) *RouteRepository {
	return &RouteRepository{db: db, logger: logger.With("component", "trade_routes")}
}

// Create stores a route with its waypoints in one transaction. Waypoint
// positions are assigned from slice order.
func (r *RouteRepository) Create(ctx context.Context, playerID int, name string, maxIterations int, waypoints []Waypoint) (*Route, error) {
	if name == "" {
		return nil, apperrors.Validation("route name is required")
	}
	if maxIterations < 1 {
		return nil, apperrors.Validation("max_iterations must be at least 1")
	}
	if len(waypoints) == 0 || len(waypoints) > maxWaypointsPerRoute {
		return nil, apperrors.Validationf("routes need between 1 and %d waypoints", maxWaypointsPerRoute)
	}
	for i := range waypoints {
		w := &waypoints[i]
		if !ValidAction(w.Action) {
			return nil, apperrors.Validationf("unknown waypoint action %q", w.Action)
		}
		if w.Action != ActionAuto {
			if w.Resource == nil || !port.ValidResource(*w.Resource) {
				return nil, apperrors.Validation("buy and sell waypoints need a valid resource")
			}
			if w.Quantity == nil || *w.Quantity <= 0 {
				return nil, apperrors.Validation("buy and sell waypoints need a positive quantity")
			}
		}
	}

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	route := &Route{PlayerID: playerID, Name: name, MaxIterations: maxIterations}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO trade_routes (player_id, name, max_iterations)
		VALUES ($1, $2, $3)
		RETURNING id`, playerID, name, maxIterations).Scan(&route.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create trade route: %w", err)
	}

	for i := range waypoints {
		w := waypoints[i]
		w.RouteID = route.ID
		w.Position = i
		err = tx.QueryRowContext(ctx, `
			INSERT INTO trade_waypoints (route_id, position, port_id, action, resource, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			route.ID, w.Position, w.PortID, string(w.Action), w.Resource, w.Quantity).Scan(&w.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create waypoint: %w", err)
		}
		route.Waypoints = append(route.Waypoints, w)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trade route: %w", err)
	}

	r.logger.Debug("Trade route created", "route_id", route.ID, "player_id", playerID, "waypoints", len(route.Waypoints))
	return route, nil
}

// Get loads a route with its waypoints in position order.
func (r *RouteRepository) Get(ctx context.Context, routeID int) (*Route, error) {
	var route Route
	err := r.db.QueryRowContext(ctx, `
		SELECT id, player_id, name, max_iterations
		FROM trade_routes WHERE id = $1`, routeID).
		Scan(&route.ID, &route.PlayerID, &route.Name, &route.MaxIterations)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFoundf("trade route %d not found", routeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load trade route: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, route_id, position, port_id, action, resource, quantity
		FROM trade_waypoints WHERE route_id = $1
		ORDER BY position`, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load waypoints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w Waypoint
		var action string
		if err := rows.Scan(&w.ID, &w.RouteID, &w.Position, &w.PortID, &action, &w.Resource, &w.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan waypoint: %w", err)
		}
		w.Action = Action(action)
		route.Waypoints = append(route.Waypoints, w)
	}
	return &route, rows.Err()
}

// ListByPlayer returns the player's routes without waypoint detail.
func (r *RouteRepository) ListByPlayer(ctx context.Context, playerID int) ([]*Route, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, name, max_iterations
		FROM trade_routes WHERE player_id = $1
		ORDER BY id`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trade routes: %w", err)
	}
	defer rows.Close()

	var routes []*Route
	for rows.Next() {
		var route Route
		if err := rows.Scan(&route.ID, &route.PlayerID, &route.Name, &route.MaxIterations); err != nil {
			return nil, fmt.Errorf("failed to scan trade route: %w", err)
		}
		routes = append(routes, &route)
	}
	return routes, rows.Err()
}

// Delete removes a route the player owns. Waypoints cascade.
func (r *RouteRepository) Delete(ctx context.Context, routeID, playerID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM trade_routes WHERE id = $1 AND player_id = $2`, routeID, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete trade route: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFoundf("trade route %d not found", routeID)
	}
	return nil
}

// RouteRunner replays saved routes against the live trade engine.
type RouteRunner struct {
	routes *RouteRepository
	trades *Service
	ports  *port.Repository
	nav    Navigator
	logger *slog.Logger
}

func NewRouteRunner(routes *RouteRepository, trades *Service, ports *port.Repository, nav Navigator, logger *slog.Logger) *RouteRunner {
	return &RouteRunner{
		routes: routes,
		trades: trades,
		ports:  ports,
		nav:    nav,
		logger: logger.With("component", "trade_routes"),
	}
}

// Run executes a route up to its iteration limit, jumping to each
// waypoint's sector before trading. Each waypoint is its own transaction;
// the run stops at the first waypoint that fails and reports how far it
// got. Partial progress is kept, not rolled back.
func (r *RouteRunner) Run(ctx context.Context, routeID, playerID int) (*RouteRunResult, error) {
	route, err := r.routes.Get(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route.PlayerID != playerID {
		return nil, apperrors.Forbidden("route belongs to another player")
	}
	if len(route.Waypoints) == 0 {
		return nil, apperrors.Validation("route has no waypoints")
	}

	result := &RouteRunResult{RouteID: routeID}
	for iter := 0; iter < route.MaxIterations; iter++ {
		for i := range route.Waypoints {
			w := &route.Waypoints[i]
			if err := r.runWaypoint(ctx, playerID, w, result); err != nil {
				pos := w.Position
				result.StoppedAt = &pos
				result.StopReason = err.Error()
				r.logger.Debug("Route run stopped",
					"route_id", routeID,
					"player_id", playerID,
					"iteration", iter,
					"position", pos,
					"reason", err)
				return result, nil
			}
			result.WaypointsExecuted++
		}
		result.IterationsCompleted++
	}
	return result, nil
}

func (r *RouteRunner) runWaypoint(ctx context.Context, playerID int, w *Waypoint, result *RouteRunResult) error {
	p, err := r.ports.GetByID(ctx, r.routes.db, w.PortID)
	if err != nil {
		return err
	}
	if err := r.nav.JumpToSector(ctx, playerID, p.SectorID); err != nil {
		return err
	}

	var tradeResult *Result
	if w.Action == ActionAuto {
		tradeResult, err = r.trades.Auto(ctx, playerID, w.PortID)
	} else {
		tradeResult, err = r.trades.Execute(ctx, playerID, w.PortID, w.Action, *w.Resource, *w.Quantity)
	}
	if err != nil {
		return err
	}
	result.TotalCreditsDelta += tradeResult.CreditsDelta
	return nil
}
