package player

import (
	"context"
	"log/slog"
	"regexp"

	"bnt-server/internal/shared/config"
	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/turns"
)

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Join creates a player for a user in a universe, with the starter ship and
// game-config defaults, spawning in the given sector.
func (s *Service) Join(ctx context.Context, universeID, userID int, handle string, startSectorID int) (*Player, error) {
	if !handlePattern.MatchString(handle) {
		return nil, apperrors.Validation("handle must be 3-20 characters: letters, digits, _ or -")
	}

	game := config.GlobalConfig.Game
	uid := userID

	// Starting turns obey the same cap rule accrual does.
	startTurns := turns.Accrue(0, game.DefaultTurnCap, game.StartingTurns)
	p, err := s.repo.Create(ctx, universeID, &uid, handle,
		game.StartingCredits, startTurns, game.DefaultTurnCap, startSectorID, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Player joined universe",
		"player_id", p.ID, "universe_id", universeID, "user_id", userID, "handle", handle)
	return p, nil
}

// SpawnAI creates an AI-driven player. AI players have no backing user.
func (s *Service) SpawnAI(ctx context.Context, universeID int, handle string, startSectorID int) (*Player, error) {
	game := config.GlobalConfig.Game

	startTurns := turns.Accrue(0, game.DefaultTurnCap, game.StartingTurns)
	return s.repo.Create(ctx, universeID, nil, handle,
		game.StartingCredits, startTurns, game.DefaultTurnCap, startSectorID, true)
}

func (s *Service) GetByUser(ctx context.Context, universeID, userID int) (*Player, error) {
	return s.repo.GetByUser(ctx, s.repo.db, universeID, userID)
}

// SectorsVisited counts how much of the universe the player has seen.
func (s *Service) SectorsVisited(ctx context.Context, playerID int) (int, error) {
	return s.repo.CountVisited(ctx, playerID)
}

func (s *Service) GetShip(ctx context.Context, playerID int) (*Ship, error) {
	return s.repo.GetShip(ctx, s.repo.db, playerID)
}

// startSector resolves the spawn sector for a universe. Everyone starts in
// sector 1.
func (s *Service) startSector(ctx context.Context, universeID int) (int, error) {
	var id int
	err := s.repo.db.QueryRowContext(ctx,
		`SELECT id FROM sectors WHERE universe_id = $1 AND number = 1`,
		universeID,
	).Scan(&id)
	if err != nil {
		return 0, apperrors.NotFoundf("universe %d has no starting sector", universeID)
	}
	return id, nil
}
