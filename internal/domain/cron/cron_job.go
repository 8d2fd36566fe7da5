package cron

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/stakefit/backend/pkg/logger"
	"github.com/stakefit/backend/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)
}

// cronLogger forwards the scheduler logs to the context logger.
type cronLogger struct {
	logger logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugf("%s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorf("%s %v: %v", msg, keysAndValues, err)
}

// CronJobManager runs every registered job on its schedule. A job is skipped
// if its previous run has not finished yet.
type CronJobManager struct {
	cron *cron.Cron
}

func NewCronJobManager(ctx context.Context) *CronJobManager {
	l := cronLogger{logger: xcontext.Logger(ctx)}
	return &CronJobManager{
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
	}
}

// Register schedules job with a standard cron expression or a descriptor such
// as "@every 1m".
func (m *CronJobManager) Register(ctx context.Context, spec string, job CronJob) error {
	_, err := m.cron.AddFunc(spec, func() {
		xcontext.Logger(ctx).Infof("%T is running...", job)
		job.Do(ctx)
		xcontext.Logger(ctx).Infof("%T ok", job)
	})
	if err != nil {
		return fmt.Errorf("cannot schedule %T with %q: %w", job, spec, err)
	}

	return nil
}

// Start blocks until ctx is done, then waits for the running jobs.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started")
	m.cron.Start()

	<-ctx.Done()

	<-m.cron.Stop().Done()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}
