package server

import (
	"log/slog"
	"net/http"

	"bnt-server/internal/ai"
	"bnt-server/internal/auth"
	"bnt-server/internal/combat"
	"bnt-server/internal/economy"
	"bnt-server/internal/middleware"
	"bnt-server/internal/movement"
	"bnt-server/internal/planet"
	"bnt-server/internal/player"
	"bnt-server/internal/ranking"
	"bnt-server/internal/scheduler"
	serverHandlers "bnt-server/internal/server/handlers"
	"bnt-server/internal/shared/database"
	"bnt-server/internal/trade"
	"bnt-server/internal/universe"
)

// Routes wires every handler into the mux with its auth mode: public,
// bearer token, admin, or cron secret.
type Routes struct {
	db        *database.DB
	auth      *auth.Handler
	universes *universe.Handler
	players   *player.Handler
	moves     *movement.Handler
	trades    *trade.Handler
	fighting  *combat.Handler
	planets   *planet.Handler
	rankings  *ranking.Handler
	news      *economy.Handler
	aiAdmin   *ai.Handler
	cron      *scheduler.Handler
	logger    *slog.Logger
}

func NewRoutes(db *database.DB, authHandler *auth.Handler, universes *universe.Handler, players *player.Handler, moves *movement.Handler, trades *trade.Handler, fighting *combat.Handler, planets *planet.Handler, rankings *ranking.Handler, news *economy.Handler, aiAdmin *ai.Handler, cron *scheduler.Handler, logger *slog.Logger) *Routes {
	return &Routes{
		db:        db,
		auth:      authHandler,
		universes: universes,
		players:   players,
		moves:     moves,
		trades:    trades,
		fighting:  fighting,
		planets:   planets,
		rankings:  rankings,
		news:      news,
		aiAdmin:   aiAdmin,
		cron:      cron,
		logger:    logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	authed := middleware.JWTMiddleware
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}
	cron := func(h http.HandlerFunc) http.Handler {
		return middleware.CronSecretMiddleware(h)
	}

	// Public endpoints
	mux.Handle("GET /api/server/health", serverHandlers.NewHealthHandler(r.db))
	mux.HandleFunc("POST /api/auth/register", r.auth.Register)
	mux.HandleFunc("POST /api/auth/logout", r.auth.Logout)
	mux.HandleFunc("GET /api/universes", r.universes.List)
	mux.HandleFunc("GET /api/universes/{id}", r.universes.Get)
	mux.HandleFunc("GET /api/universes/{id}/rankings", r.rankings.Leaderboard)
	mux.HandleFunc("GET /api/universes/{id}/news", r.news.News)

	// Player endpoints (bearer token)
	mux.Handle("POST /api/universes/{id}/players", authed(http.HandlerFunc(r.players.Join)))
	mux.Handle("GET /api/players/me", authed(http.HandlerFunc(r.players.Me)))
	mux.Handle("POST /api/move", authed(http.HandlerFunc(r.moves.Move)))
	mux.Handle("POST /api/scan/single", authed(http.HandlerFunc(r.moves.ScanSingle)))
	mux.Handle("POST /api/scan/full", authed(http.HandlerFunc(r.moves.ScanFull)))
	mux.Handle("POST /api/scan/warps", authed(http.HandlerFunc(r.moves.ScanWarps)))
	mux.Handle("POST /api/trade", authed(http.HandlerFunc(r.trades.Trade)))
	mux.Handle("POST /api/trade/auto", authed(http.HandlerFunc(r.trades.AutoTrade)))
	mux.Handle("POST /api/routes", authed(http.HandlerFunc(r.trades.CreateRoute)))
	mux.Handle("GET /api/routes", authed(http.HandlerFunc(r.trades.ListRoutes)))
	mux.Handle("POST /api/routes/{id}/execute", authed(http.HandlerFunc(r.trades.ExecuteRoute)))
	mux.Handle("DELETE /api/routes/{id}", authed(http.HandlerFunc(r.trades.DeleteRoute)))
	mux.Handle("POST /api/mines/deploy", authed(http.HandlerFunc(r.fighting.DeployMines)))
	mux.Handle("POST /api/combat/attack", authed(http.HandlerFunc(r.fighting.Attack)))
	mux.Handle("POST /api/planets/{id}/capture", authed(http.HandlerFunc(r.fighting.CapturePlanet)))
	mux.Handle("POST /api/planets/{id}/bombard", authed(http.HandlerFunc(r.fighting.BombardPlanet)))
	mux.Handle("PUT /api/planets/{id}/allocation", authed(http.HandlerFunc(r.planets.SetAllocation)))
	mux.Handle("POST /api/planets/genesis", authed(http.HandlerFunc(r.planets.Genesis)))

	// Admin endpoints
	mux.Handle("POST /api/universes", admin(r.universes.Create))
	mux.Handle("DELETE /api/universes/{id}", admin(r.universes.Delete))
	mux.Handle("POST /api/universes/{id}/ai/reset", admin(r.aiAdmin.Reset))
	mux.Handle("PUT /api/universes/{id}/scheduler/interval", admin(r.cron.SetInterval))
	mux.Handle("GET /api/scheduler/runs", admin(r.cron.Runs))

	// Scheduler endpoints. The cron routes take the shared secret, not
	// user credentials; status is read-only and public.
	mux.Handle("POST /cron/turn-generation", cron(r.cron.TurnGeneration))
	mux.Handle("POST /cron/cycle-events", cron(r.cron.CycleEvents))
	mux.Handle("POST /cron/update-events", cron(r.cron.UpdateEvents))
	mux.HandleFunc("GET /api/scheduler/status", r.cron.Status)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/auth/register", "/api/universes", "/api/scheduler/status"},
		"protected_endpoints", []string{"/api/players/me", "/api/move", "/api/trade", "/api/routes", "/api/mines/deploy", "/api/combat/attack"},
		"admin_endpoints", []string{"/api/universes", "/api/universes/{id}/ai/reset"},
		"cron_endpoints", []string{"/cron/turn-generation", "/cron/cycle-events", "/cron/update-events"},
	)

	return mux
}
