package scheduler

import (
	"testing"

	"bnt-server/internal/clock"
)

func TestKindsForBatchCoverAllEventKinds(t *testing.T) {
	seen := make(map[clock.EventKind]Batch)
	for _, b := range []Batch{BatchTurnGeneration, BatchCycleEvents, BatchUpdateEvents} {
		for _, kind := range KindsForBatch(b) {
			if prev, dup := seen[kind]; dup {
				t.Errorf("%s appears in both %s and %s", kind, prev, b)
			}
			seen[kind] = b
		}
	}

	for _, kind := range clock.AllEventKinds {
		if _, ok := seen[kind]; !ok {
			t.Errorf("%s is not assigned to any batch", kind)
		}
	}
	if len(seen) != len(clock.AllEventKinds) {
		t.Errorf("batches cover %d kinds, want %d", len(seen), len(clock.AllEventKinds))
	}
}

func TestKindsForBatchUnknown(t *testing.T) {
	if kinds := KindsForBatch("nightly"); kinds != nil {
		t.Errorf("unknown batch returned %v, want nil", kinds)
	}
}
