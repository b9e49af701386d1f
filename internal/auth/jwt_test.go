package auth

import (
	"testing"
	"time"

	"bnt-server/internal/shared/config"
)

func withTestConfig(t *testing.T) {
	t.Helper()
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			TokenExpiration: time.Hour,
		},
	}
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func TestJWTRoundTrip(t *testing.T) {
	withTestConfig(t)

	token, err := GenerateJWT(42, "trader", RoleUser)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "trader" {
		t.Errorf("Username = %q, want trader", claims.Username)
	}
	if claims.Role != RoleUser {
		t.Errorf("Role = %q, want %q", claims.Role, RoleUser)
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	withTestConfig(t)

	if _, err := ValidateJWT("not.a.token"); err == nil {
		t.Error("garbage token should be rejected")
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	withTestConfig(t)

	token, err := GenerateJWT(1, "trader", RoleUser)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	config.GlobalConfig.Auth.JWTSecret = "different-secret"
	if _, err := ValidateJWT(token); err == nil {
		t.Error("token signed with another secret should be rejected")
	}
}
