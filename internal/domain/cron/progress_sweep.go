package cron

import (
	"context"
	"time"

	"github.com/stakefit/backend/internal/domain/progress"
	"github.com/stakefit/backend/pkg/xcontext"
)

const (
	sweepBatchSize = 100

	// Check-ins younger than sweepDelay are still handled by their own
	// follow-up.
	sweepDelay = time.Minute
)

type ProgressSweepCronJob struct {
	updater *progress.Updater
}

func NewProgressSweepCronJob(updater *progress.Updater) *ProgressSweepCronJob {
	return &ProgressSweepCronJob{updater: updater}
}

func (job *ProgressSweepCronJob) Do(ctx context.Context) {
	n, err := job.updater.Sweep(ctx, time.Now().Add(-sweepDelay), sweepBatchSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sweep check-in progress: %v", err)
		return
	}

	if n > 0 {
		xcontext.Logger(ctx).Warnf("Applied progress of %d check-ins left behind", n)
	}
}
