package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestGetType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"not found", NotFoundf("player %d", 7), ErrorTypeNotFound},
		{"validation", Validation("bad input"), ErrorTypeValidation},
		{"conflict", Conflict(CodeInsufficientTurns, "no turns left"), ErrorTypeConflict},
		{"unauthorized", Unauthorized("no token"), ErrorTypeUnauthorized},
		{"forbidden", Forbidden("not yours"), ErrorTypeForbidden},
		{"wrapped internal", WrapInternal("query failed", errors.New("boom")), ErrorTypeInternal},
		{"plain error defaults to internal", errors.New("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetType(tt.err); got != tt.want {
				t.Errorf("GetType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	err := Conflictf(CodeInsufficientFunds, "%d credits needed", 500)
	if got := GetCode(err); got != CodeInsufficientFunds {
		t.Errorf("GetCode() = %q, want %q", got, CodeInsufficientFunds)
	}
}

func TestGetCodeSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while trading: %w", Conflict(CodeSectorRules, "no trading here"))
	if got := GetCode(err); got != CodeSectorRules {
		t.Errorf("GetCode() = %q, want %q", got, CodeSectorRules)
	}
	if got := GetType(err); got != ErrorTypeConflict {
		t.Errorf("GetType() = %s, want %s", got, ErrorTypeConflict)
	}
}

func TestWrapInternalUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapInternal("query failed", cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
}
