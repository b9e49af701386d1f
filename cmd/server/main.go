package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bnt-server/internal/ai"
	"bnt-server/internal/auth"
	"bnt-server/internal/clock"
	"bnt-server/internal/combat"
	"bnt-server/internal/cronlog"
	"bnt-server/internal/economy"
	"bnt-server/internal/middleware"
	"bnt-server/internal/movement"
	"bnt-server/internal/planet"
	"bnt-server/internal/player"
	"bnt-server/internal/port"
	"bnt-server/internal/ranking"
	"bnt-server/internal/scheduler"
	"bnt-server/internal/sector"
	"bnt-server/internal/server"
	"bnt-server/internal/shared/config"
	"bnt-server/internal/shared/database"
	"bnt-server/internal/shared/logger"
	"bnt-server/internal/shared/redis"
	"bnt-server/internal/trade"
	"bnt-server/internal/turns"
	"bnt-server/internal/universe"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}
	logger.Init()

	log := slog.With("component", "main")
	cfg := config.GlobalConfig

	db, err := database.Connect()
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	cache, err := redis.Connect()
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	// Repositories
	userRepo := auth.NewRepository(db.DB, slog.Default())
	universeRepo := universe.NewRepository(db.DB, slog.Default())
	sectorRepo := sector.NewRepository(db.DB, slog.Default())
	portRepo := port.NewRepository(db.DB, slog.Default())
	planetRepo := planet.NewRepository(db.DB, slog.Default())
	playerRepo := player.NewRepository(db.DB, slog.Default())
	clockRepo := clock.NewRepository(db.DB, slog.Default())
	cronLogRepo := cronlog.NewRepository(db.DB, slog.Default())
	mineRepo := combat.NewRepository(db.DB, slog.Default())
	aiMemoryRepo := ai.NewRepository(db.DB, slog.Default())
	routeRepo := trade.NewRouteRepository(db, slog.Default())

	// Services
	playerService := player.NewService(playerRepo, slog.Default())
	planetService := planet.NewService(db, planetRepo, playerRepo, sectorRepo, slog.Default())
	combatService := combat.NewService(db, mineRepo, playerRepo, planetRepo, sectorRepo, slog.Default())
	movementService := movement.NewService(db, playerRepo, sectorRepo, portRepo, planetRepo, mineRepo, combatService, slog.Default())
	tradeService := trade.NewService(db, portRepo, playerRepo, sectorRepo, slog.Default())
	routeRunner := trade.NewRouteRunner(routeRepo, tradeService, portRepo, movementService, slog.Default())
	turnService := turns.NewService(db.DB, slog.Default())
	economyService := economy.NewService(db.DB, portRepo, planetRepo, sectorRepo, cfg.Game, slog.Default())
	rankingService := ranking.NewService(db, cache, slog.Default())
	aiActor := ai.NewActor(movementService, tradeService, combatService, planetService)
	aiService := ai.NewService(db, aiMemoryRepo, playerRepo, sectorRepo, portRepo, aiActor, slog.Default())
	universeService := universe.NewService(db, universeRepo, sectorRepo, portRepo, planetRepo, clockRepo, playerService, cfg.Game, slog.Default())
	schedulerService := scheduler.NewService(clockRepo, cronLogRepo, universeRepo, turnService, economyService, rankingService, aiService, slog.Default())

	// Handlers
	authHandler := auth.NewHandler(userRepo, slog.Default())
	universeHandler := universe.NewHandler(universeService, slog.Default())
	playerHandler := player.NewHandler(playerService, slog.Default())
	movementHandler := movement.NewHandler(movementService, playerService, slog.Default())
	tradeHandler := trade.NewHandler(tradeService, routeRepo, routeRunner, playerService, slog.Default())
	combatHandler := combat.NewHandler(combatService, playerService, slog.Default())
	planetHandler := planet.NewHandler(planetService, playerService, slog.Default())
	rankingHandler := ranking.NewHandler(rankingService, slog.Default())
	newsHandler := economy.NewHandler(economyService, slog.Default())
	aiHandler := ai.NewHandler(aiMemoryRepo, slog.Default())
	schedulerHandler := scheduler.NewHandler(schedulerService, slog.Default())

	routes := server.NewRoutes(db, authHandler, universeHandler, playerHandler, movementHandler,
		tradeHandler, combatHandler, planetHandler, rankingHandler, newsHandler, aiHandler, schedulerHandler, slog.Default())
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	handler := middleware.NewCORS().Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var trigger *scheduler.Trigger
	if cfg.Scheduler.InternalTrigger {
		trigger = scheduler.NewTrigger(schedulerService, slog.Default())
		if err := trigger.Start(); err != nil {
			log.Error("Failed to start scheduler trigger", "error", err)
			os.Exit(1)
		}
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	if trigger != nil {
		trigger.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
	log.Info("Server stopped")
}
