package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"

	"bnt-server/internal/shared/config"
	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/shared/response"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

type Handler struct {
	repo   *Repository
	logger *slog.Logger
}

func NewHandler(repo *Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
}

type tokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Register handles POST /api/auth/register. Identity management proper is an
// external collaborator; this endpoint mints bearer tokens for an account,
// creating it on first use.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "auth_register")

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.Validation("invalid request body"))
		return
	}

	if !usernamePattern.MatchString(req.Username) {
		response.Error(w, r, logger, apperrors.Validation("username must be 3-20 characters: letters, digits, _ or -"))
		return
	}

	user, err := h.repo.FindOrCreateUser(r.Context(), req.Username)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	token, err := GenerateJWT(user.ID, user.Username, user.Role)
	if err != nil {
		response.Error(w, r, logger, apperrors.WrapInternal("failed to issue token", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   config.GlobalConfig.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(config.GlobalConfig.Auth.TokenExpiration.Seconds()),
	})

	logger.Info("Issued token", "user_id", user.ID, "username", user.Username)
	response.Success(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout by expiring the auth cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   config.GlobalConfig.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	response.Success(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
