package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"bnt-server/internal/shared/config"
	apperrors "bnt-server/internal/shared/errors"
	"bnt-server/internal/shared/response"
)

// CronSecretMiddleware gates scheduler endpoints behind the shared cron
// secret. These endpoints never accept user credentials; the trigger is
// either an external timer or the in-process cron.
func CronSecretMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "cron_secret",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		secret := config.GlobalConfig.Scheduler.CronSecret
		if secret == "" {
			logger.Error("Cron endpoint called but no cron secret is configured")
			response.Error(w, r, logger, apperrors.Unauthorized("cron endpoints are disabled"))
			return
		}

		presented := r.Header.Get("X-Cron-Secret")
		if presented == "" {
			presented = r.URL.Query().Get("secret")
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			logger.Warn("Cron endpoint called with bad or missing secret")
			response.Error(w, r, logger, apperrors.Unauthorized("cron secret required"))
			return
		}

		logger.Debug("Cron secret accepted")
		next.ServeHTTP(w, r)
	})
}
