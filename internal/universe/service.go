package universe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bnt-server/internal/clock"
	"bnt-server/internal/planet"
	"bnt-server/internal/player"
	"bnt-server/internal/port"
	"bnt-server/internal/sector"
	"bnt-server/internal/shared/config"
	"bnt-server/internal/shared/database"
	apperrors "bnt-server/internal/shared/errors"
)

type Service struct {
	db      *database.DB
	repo    *Repository
	sectors *sector.Repository
	ports   *port.Repository
	planets *planet.Repository
	clock   *clock.Repository
	players *player.Service
	game    config.GameConfig
	logger  *slog.Logger
}

func NewService(db *database.DB, repo *Repository, sectors *sector.Repository, ports *port.Repository, planets *planet.Repository, clockRepo *clock.Repository, players *player.Service, game config.GameConfig, logger *slog.Logger) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		sectors: sectors,
		ports:   ports,
		planets: planets,
		clock:   clockRepo,
		players: players,
		game:    game,
		logger:  logger.With("component", "universe"),
	}
}

func validateParams(params *CreateParams) error {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" || len(params.Name) > 100 {
		return apperrors.Validation("name must be between 1 and 100 characters")
	}
	if params.SectorCount < 1 || params.SectorCount > 1000 {
		return apperrors.Validation("sectorCount must be between 1 and 1000")
	}
	if params.PortDensity < 0 || params.PortDensity > 1 {
		return apperrors.Validation("portDensity must be between 0 and 1")
	}
	if params.PlanetDensity < 0 || params.PlanetDensity > 1 {
		return apperrors.Validation("planetDensity must be between 0 and 1")
	}
	if params.AIPlayerCount < 0 || params.AIPlayerCount > 100 {
		return apperrors.Validation("aiPlayerCount must be between 0 and 100")
	}
	if params.TurnsPerGeneration < 0 {
		return apperrors.Validation("turnsPerGeneration must be positive")
	}
	return nil
}

// Create validates the parameters and generates a whole new world: the
// universe row, its sector graph, ports, planets, scheduling rows, and AI
// players. Everything but the AI spawn happens in one transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Universe, error) {
	if err := validateParams(&params); err != nil {
		return nil, err
	}
	if params.TurnsPerGeneration == 0 {
		params.TurnsPerGeneration = s.game.TurnsPerGeneration
	}

	tx, err := s.db.BeginTxContext(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	u, err := s.repo.Create(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	gen := &generator{
		sectors: s.sectors,
		ports:   s.ports,
		planets: s.planets,
		logger:  s.logger,
	}
	startSectorID, err := gen.generate(ctx, tx, u)
	if err != nil {
		return nil, err
	}

	if err := s.clock.Seed(ctx, tx, u.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit universe generation: %w", err)
	}

	s.spawnAIPlayers(ctx, u, startSectorID)

	s.logger.Info("Universe created",
		"universe_id", u.ID,
		"name", u.Name,
		"sectors", u.SectorCount,
		"ai_players", u.AIPlayerCount)
	return u, nil
}

// spawnAIPlayers registers the AI roster through the normal player
// pipeline. Failures leave a smaller roster, not a broken universe.
func (s *Service) spawnAIPlayers(ctx context.Context, u *Universe, startSectorID int) {
	for i := 1; i <= u.AIPlayerCount; i++ {
		handle := fmt.Sprintf("xenobe-%d", i)
		if _, err := s.players.SpawnAI(ctx, u.ID, handle, startSectorID); err != nil {
			s.logger.Error("Failed to spawn AI player", "universe_id", u.ID, "handle", handle, "error", err)
		}
	}
}

func (s *Service) Get(ctx context.Context, id int) (*Universe, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Universe, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
