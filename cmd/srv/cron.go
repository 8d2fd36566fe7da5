package main

import (
	"github.com/stakefit/backend/internal/domain/cron"
	"github.com/stakefit/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadRedisClient()
	s.loadPublisher("cron")
	s.loadRepos()
	s.loadProgressUpdater()

	cronCfg := xcontext.Configs(s.ctx).Cron
	cronJobManager := cron.NewCronJobManager(s.ctx)

	jobs := []struct {
		spec string
		job  cron.CronJob
	}{
		{spec: cronCfg.CompleteChallenges, job: cron.NewCompleteChallengesCronJob(s.challengeRepo)},
		{spec: cronCfg.ReconcileBalances, job: cron.NewReconcileBalancesCronJob(s.balanceRepo, s.transactionRepo)},
		{spec: cronCfg.ProgressSweep, job: cron.NewProgressSweepCronJob(s.progressUpdater)},
	}

	for _, j := range jobs {
		if j.spec == "" {
			continue
		}

		if err := cronJobManager.Register(s.ctx, j.spec, j.job); err != nil {
			return err
		}
	}

	cronJobManager.Start(s.ctx)
	return nil
}
