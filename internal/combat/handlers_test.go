package combat

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bnt-server/internal/shared/response"
)

func newTestHandler() *Handler {
	// These tests only exercise paths that fail before any service call.
	return NewHandler(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}

func TestDeployMinesRejectsBadBody(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/mines/deploy", strings.NewReader("{broken"))
	h.DeployMines(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeError(t, w); body.Error.Code != "invalid_input" {
		t.Errorf("code = %q, want invalid_input", body.Error.Code)
	}
}

func TestDeployMinesRequiresSectorNumber(t *testing.T) {
	h := newTestHandler()

	for _, payload := range []string{
		`{"universe_id": 1, "torpedoes_to_use": 5}`,
		`{"universe_id": 1, "sector_number": 0, "torpedoes_to_use": 5}`,
		`{"universe_id": 1, "sector_number": -3, "torpedoes_to_use": 5}`,
	} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/mines/deploy", strings.NewReader(payload))
		h.DeployMines(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("payload %s: status = %d, want %d", payload, w.Code, http.StatusBadRequest)
		}
		if body := decodeError(t, w); body.Error.Code != "invalid_input" {
			t.Errorf("payload %s: code = %q, want invalid_input", payload, body.Error.Code)
		}
	}
}

func TestDeployMinesRequiresAuthentication(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/mines/deploy",
		strings.NewReader(`{"universe_id": 1, "sector_number": 7, "torpedoes_to_use": 5}`))
	h.DeployMines(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
