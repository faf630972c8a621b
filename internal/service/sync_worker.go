package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Syncer reconciles the remote sheet into the catalog.
type Syncer interface {
	SyncFromSheet(ctx context.Context) (SyncResult, error)
}

// SyncWorker runs SyncFromSheet on a cron schedule
type SyncWorker struct {
	syncer   Syncer
	schedule string
	cron     *cron.Cron
}

// NewSyncWorker creates a new SyncWorker. The schedule uses the standard five field cron format
// and also accepts descriptors such as "@every 10m".
func NewSyncWorker(syncer Syncer, schedule string) (*SyncWorker, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	return &SyncWorker{syncer: syncer, schedule: schedule}, nil
}

// Start schedules the sync job. Runs that overlap a previous run are skipped.
// The worker stops when ctx is done.
func (w *SyncWorker) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule sync: %w", err)
	}
	w.cron = c
	c.Start()
	slog.Info("Sync worker started", slog.String("schedule", w.schedule))

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// Stop stops the scheduler and waits for a running sync to finish.
func (w *SyncWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	slog.Info("Sync worker stopped")
}

// RunOnce performs one synchronization and logs its outcome.
func (w *SyncWorker) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	result, err := w.syncer.SyncFromSheet(ctx)
	if err != nil {
		slog.Error("Scheduled sync failed", slog.Any("err", err))
		return
	}
	slog.Info("Scheduled sync finished", slog.String("summary", result.Summary.Message))
}
