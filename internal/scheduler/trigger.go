package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger runs the batches from an in-process cron when no external timer
// is configured. The orchestrator stays stateless either way; firing a
// batch that is not due just produces skipped rows.
type Trigger struct {
	service *Service
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewTrigger(service *Service, logger *slog.Logger) *Trigger {
	return &Trigger{
		service: service,
		cron:    cron.New(),
		logger:  logger.With("component", "scheduler_trigger"),
	}
}

// Start schedules all three batches once per minute and begins firing.
func (t *Trigger) Start() error {
	for _, batch := range []Batch{BatchTurnGeneration, BatchCycleEvents, BatchUpdateEvents} {
		b := batch
		if _, err := t.cron.AddFunc("* * * * *", func() { t.fire(b) }); err != nil {
			return err
		}
	}
	t.cron.Start()
	t.logger.Info("Internal scheduler trigger started")
	return nil
}

// Stop halts the cron and waits for in-flight batches to finish.
func (t *Trigger) Stop() {
	ctx := t.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		t.logger.Warn("Timed out waiting for scheduled batches to finish")
	}
	t.logger.Info("Internal scheduler trigger stopped")
}

func (t *Trigger) fire(batch Batch) {
	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Second)
	defer cancel()

	if _, err := t.service.RunBatch(ctx, batch); err != nil {
		t.logger.Error("Scheduled batch failed", "batch", batch, "error", err)
	}
}
