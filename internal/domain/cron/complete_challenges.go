package cron

import (
	"context"
	"time"

	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/xcontext"
)

type CompleteChallengesCronJob struct {
	challengeRepo repository.ChallengeRepository
}

func NewCompleteChallengesCronJob(challengeRepo repository.ChallengeRepository) *CompleteChallengesCronJob {
	return &CompleteChallengesCronJob{challengeRepo: challengeRepo}
}

func (job *CompleteChallengesCronJob) Do(ctx context.Context) {
	ids, err := job.challengeRepo.CompleteExpired(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete expired challenges: %v", err)
		return
	}

	if len(ids) > 0 {
		xcontext.Logger(ctx).Infof("Completed %d challenges: %v", len(ids), ids)
	}
}
