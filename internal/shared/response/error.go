package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"bnt-server/internal/shared/errors"
)

// ErrorBody is the machine-readable half of the error envelope
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON error envelope sent to clients
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error logs an error and sends a JSON error envelope to the client.
// This should be the only place where request errors are logged.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	code := errors.GetCode(err)
	statusCode := mapErrorTypeToStatusCode(errorType)

	logError(logger, r, err, errorType, statusCode)

	message := err.Error()
	if errorType == errors.ErrorTypeInternal {
		// Internal detail stays in the logs
		message = "internal server error"
	}

	sendErrorResponse(w, code, message, statusCode)
}

// mapErrorTypeToStatusCode maps error types to HTTP status codes.
// Business-rule conflicts (insufficient turns, wrong port kind, sector
// rules) are client errors, not 409s.
func mapErrorTypeToStatusCode(errorType errors.ErrorType) int {
	switch errorType {
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeValidation, errors.ErrorTypeConflict:
		return http.StatusBadRequest
	case errors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrorTypeForbidden:
		return http.StatusForbidden
	case errors.ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case errors.ErrorTypeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

// logError logs the error with appropriate level and context
func logError(logger *slog.Logger, r *http.Request, err error, errorType errors.ErrorType, statusCode int) {
	logCtx := logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", statusCode,
	)

	switch errorType {
	case errors.ErrorTypeNotFound:
		logCtx.Debug("Resource not found", "error", err)
	case errors.ErrorTypeValidation:
		logCtx.Debug("Validation error", "error", err)
	case errors.ErrorTypeConflict:
		// Expected during normal play (insufficient turns, stock, funds)
		logCtx.Debug("Business rule rejection", "error", err)
	case errors.ErrorTypeUnauthorized, errors.ErrorTypeForbidden:
		logCtx.Warn("Authorization error", "error", err)
	case errors.ErrorTypeInternal:
		fallthrough
	default:
		logCtx.Error("Internal server error", "error", err)
	}
}

func sendErrorResponse(w http.ResponseWriter, code, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{Error: ErrorBody{Code: code, Message: message}}

	// If JSON encoding fails, there's not much we can do at this point
	_ = json.NewEncoder(w).Encode(response)
}

// Success sends a JSON success response to the client
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
