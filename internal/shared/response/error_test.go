package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "bnt-server/internal/shared/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFoundf("universe %d not found", 3), http.StatusNotFound, "not_found"},
		{"validation", apperrors.Validation("name is required"), http.StatusBadRequest, "invalid_input"},
		{"conflict is a client error", apperrors.Conflict(apperrors.CodeInsufficientTurns, "no turns left"), http.StatusBadRequest, apperrors.CodeInsufficientTurns},
		{"unauthorized", apperrors.Unauthorized("missing token"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperrors.Forbidden("not your route"), http.StatusForbidden, "forbidden"},
		{"internal", apperrors.WrapInternal("query failed", errors.New("boom")), http.StatusInternalServerError, "server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			Error(w, r, discardLogger(), tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var body ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	Error(w, r, discardLogger(), apperrors.WrapInternal("query failed", errors.New("pq: secret table missing")))

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error.Message != "internal server error" {
		t.Errorf("message = %q, want the generic one", body.Error.Message)
	}
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, http.StatusCreated, map[string]int{"id": 7})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["id"] != 7 {
		t.Errorf("body = %v, want id 7", body)
	}
}
