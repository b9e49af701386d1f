package auth

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/shared/utils"
)

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// FindOrCreateUser registers a username on first sight and returns the
// existing account otherwise. The configured admin username gets the admin
// role.
func (r *Repository) FindOrCreateUser(ctx context.Context, username string) (*User, error) {
	logger := r.logger.With("component", "auth_repository", "operation", "find_or_create", "username", username)

	user := &User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, role, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.Role, &user.CreatedAt)

	if err == nil {
		logger.Debug("Found existing user", "user_id", user.ID)
		return user, nil
	}
	if err != sql.ErrNoRows {
		logger.Error("Failed to look up user", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	role := RoleUser
	if username == utils.GetEnv("ADMIN_USERNAME", "admin") {
		role = RoleAdmin
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, role) VALUES ($1, $2)
		 RETURNING id, username, role, created_at`,
		username, role,
	).Scan(&user.ID, &user.Username, &user.Role, &user.CreatedAt)
	if err != nil {
		logger.Error("Failed to create user", "error", err)
		return nil, apperrors.WrapInternal("failed to create user", err)
	}

	logger.Info("Created new user", "user_id", user.ID, "role", user.Role)
	return user, nil
}
