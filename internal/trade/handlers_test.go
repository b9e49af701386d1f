package trade

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
	return NewHandler(nil, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}

func TestTradeRejectsBadBody(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/trade", strings.NewReader("{broken"))
	h.Trade(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeError(t, w); body.Error.Code != "invalid_input" {
		t.Errorf("code = %q, want invalid_input", body.Error.Code)
	}
}

func TestTradeRejectsUnknownAction(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/trade",
		strings.NewReader(`{"universe_id": 1, "portId": 2, "action": "barter", "resource": "ore", "qty": 5}`))
	h.Trade(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestTradeRequiresAuthentication(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/trade",
		strings.NewReader(`{"universe_id": 1, "portId": 2, "action": "buy", "resource": "ore", "qty": 5}`))
	h.Trade(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestValidAction(t *testing.T) {
	for _, a := range []Action{ActionBuy, ActionSell, ActionAuto} {
		if !ValidAction(a) {
			t.Errorf("%s should be valid", a)
		}
	}
	if ValidAction("barter") {
		t.Error("unknown action should be invalid")
	}
}
