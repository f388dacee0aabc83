// File: internal/jobs/ledger_retention.go
package jobs

import (
	"context"
	"time"

	"user_access_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LedgerPruner deletes registration ledger entries older than a cutoff.
type LedgerPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// LedgerRetentionJob periodically removes old registration ledger entries.
type LedgerRetentionJob struct {
	pruner        LedgerPruner
	logger        *zap.Logger
	schedule      string
	retention     time.Duration
	now           func() time.Time
	cronScheduler *cron.Cron
}

// NewLedgerRetentionJob creates a new LedgerRetentionJob.
func NewLedgerRetentionJob(pruner LedgerPruner, logger *zap.Logger, cfg *config.Config) *LedgerRetentionJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)

	return &LedgerRetentionJob{
		pruner:        pruner,
		logger:        logger.Named("LedgerRetentionJob"),
		schedule:      cfg.LedgerRetentionSchedule,
		retention:     time.Duration(cfg.LedgerRetentionDays) * 24 * time.Hour,
		now:           time.Now,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *LedgerRetentionJob) SetupAndStart() error {
	if j.schedule == "" || j.retention <= 0 {
		j.logger.Warn("Ledger retention disabled (LEDGER_RETENTION_SCHEDULE or LEDGER_RETENTION_DAYS unset). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(j.schedule, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule ledger retention job", zap.String("schedule", j.schedule), zap.Error(err))
		return err
	}

	j.logger.Info("Ledger retention job scheduled",
		zap.String("schedule", j.schedule),
		zap.Duration("retention", j.retention),
		zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *LedgerRetentionJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := j.now().Add(-j.retention)
	j.logger.Info("Starting ledger retention run", zap.Time("cutoff", cutoff))

	deleted, err := j.pruner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("Ledger retention run failed", zap.Error(err))
		return
	}
	j.logger.Info("Ledger retention run completed", zap.Int64("entries_deleted", deleted))
}

// Stop gracefully stops the cron scheduler.
func (j *LedgerRetentionJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping ledger retention scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Ledger retention scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Ledger retention scheduler stop timed out.")
	}
}
