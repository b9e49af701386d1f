package auth

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

func testHandler() *Handler {
	// Validation runs before the repository is touched.
	return NewHandler(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterRejectsBadBody(t *testing.T) {
	h := testHandler()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
	h.Register(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	var body response.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error.Code != "invalid_input" {
		t.Errorf("code = %q, want invalid_input", body.Error.Code)
	}
}

func TestRegisterRejectsBadUsernames(t *testing.T) {
	h := testHandler()

	bad := []string{
		"",
		"ab",
		"this-username-is-way-too-long",
		"has space",
		"punct!",
	}
	for _, username := range bad {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"username": "`+username+`"}`))
		h.Register(w, r)

		if w.Code != http.StatusBadRequest {
			t.Errorf("username %q: status = %d, want %d", username, w.Code, http.StatusBadRequest)
		}
	}
}

func TestUsernamePattern(t *testing.T) {
	good := []string{"abc", "player_one", "Trader-99", "a2345678901234567890"}
	for _, username := range good {
		if !usernamePattern.MatchString(username) {
			t.Errorf("username %q should be accepted", username)
		}
	}
}
