package cronlog

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Entry is one scheduled-engine invocation. Rows are append-only; runs that
// lose the scheduling race are recorded as skipped.
type Entry struct {
	ID              int64     `json:"id"`
	RunID           uuid.UUID `json:"run_id"`
	UniverseID      *int      `json:"universe_id,omitempty"`
	EventKind       string    `json:"event_kind"`
	Status          string    `json:"status"`
	Message         string    `json:"message"`
	ExecutionTimeMS int64     `json:"execution_time_ms"`
	CreatedAt       time.Time `json:"created_at"`
}
