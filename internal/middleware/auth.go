package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"bnt-server/internal/auth"
	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		token := bearerToken(r)
		if token == "" {
			response.Error(w, r, logger, apperrors.Unauthorized("authentication required"))
			return
		}

		claims, err := auth.ValidateJWT(token)
		if err != nil {
			response.Error(w, r, logger, apperrors.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		logger.Debug("JWT authentication successful",
			"user_id", claims.UserID,
			"username", claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken resolves the token from the Authorization header, falling back
// to the auth cookie for browser clients.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return token
		}
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// GetUserFromContext returns the authenticated claims, or nil.
func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
