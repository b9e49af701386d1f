package clock

import (
	"testing"
	"time"
)

func TestEventIsDue(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		lastRun *time.Time
		want    bool
	}{
		{"never run is always due", nil, true},
		{"interval elapsed", timePtr(now.Add(-6 * time.Minute)), true},
		{"exactly at interval", timePtr(now.Add(-5 * time.Minute)), true},
		{"interval not elapsed", timePtr(now.Add(-4 * time.Minute)), false},
		{"just ran", timePtr(now), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{Kind: EventPortRegen, IntervalMinutes: 5, LastRun: tt.lastRun}
			if got := e.IsDue(now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventNextDue(t *testing.T) {
	last := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	e := &Event{Kind: EventRankings, IntervalMinutes: 60, LastRun: &last}

	want := last.Add(60 * time.Minute)
	if got := e.NextDue(); !got.Equal(want) {
		t.Errorf("NextDue() = %v, want %v", got, want)
	}

	fresh := &Event{Kind: EventRankings, IntervalMinutes: 60}
	if got := fresh.NextDue(); !got.IsZero() {
		t.Errorf("never-run event NextDue() = %v, want zero time", got)
	}
}

func TestDefaultIntervalsCoverAllKinds(t *testing.T) {
	for _, kind := range AllEventKinds {
		interval, ok := DefaultIntervals[kind]
		if !ok {
			t.Errorf("no default interval for %s", kind)
			continue
		}
		if interval < 1 {
			t.Errorf("%s interval %d is below one minute", kind, interval)
		}
	}
	if len(DefaultIntervals) != len(AllEventKinds) {
		t.Errorf("DefaultIntervals has %d entries, want %d", len(DefaultIntervals), len(AllEventKinds))
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
