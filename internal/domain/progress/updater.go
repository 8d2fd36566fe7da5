package progress

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stakefit/backend/internal/common"
	"github.com/stakefit/backend/internal/domain/leaderboard"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/pubsub"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Topic carries the check-ins whose progress could not be applied right after
// they were accepted.
const Topic = "check_in_progress"

const defaultBackoff = 100 * time.Millisecond

type Event struct {
	CheckInID string `json:"check_in_id"`
}

// Updater applies the progress of accepted check-ins to their participant and
// to the challenge leaderboard. Applying a check-in more than once has no
// further effect.
type Updater struct {
	checkInRepo     repository.CheckInRepository
	participantRepo repository.ParticipantRepository
	leaderboard     leaderboard.Leaderboard
	publisher       pubsub.Publisher
}

func NewUpdater(
	checkInRepo repository.CheckInRepository,
	participantRepo repository.ParticipantRepository,
	leaderboard leaderboard.Leaderboard,
	publisher pubsub.Publisher,
) *Updater {
	return &Updater{
		checkInRepo:     checkInRepo,
		participantRepo: participantRepo,
		leaderboard:     leaderboard,
		publisher:       publisher,
	}
}

// Apply returns false if the check-in progress had already been applied. It
// must not be called inside a database transaction.
func (u *Updater) Apply(ctx context.Context, checkInID string) (bool, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	checkIn, err := u.checkInRepo.GetByID(ctx, checkInID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errorx.New(errorx.NotFound, "Not found check-in")
		}

		xcontext.Logger(ctx).Errorf("Cannot get check-in: %v", err)
		return false, errorx.Classify(err)
	}

	applied, err := u.checkInRepo.MarkProgressApplied(ctx, checkIn.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark progress applied: %v", err)
		return false, errorx.Classify(err)
	}

	if !applied {
		return false, nil
	}

	err = u.participantRepo.IncreaseProgress(ctx, checkIn.ChallengeID, checkIn.UserID, 1)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot increase progress: %v", err)
			return false, errorx.Classify(err)
		}

		// The user left or the challenge was deleted, only the flag is kept.
		xcontext.Logger(ctx).Debugf("Participant of check-in %s no longer exists", checkIn.ID)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit progress of check-in %s: %v", checkIn.ID, err)
		return false, errorx.Classify(err)
	}

	// The leaderboard is a cache of the participant progress, it expires and
	// reloads from the database if this update is lost.
	if err := u.leaderboard.Increase(ctx, checkIn.ChallengeID, checkIn.UserID, 1); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot increase leaderboard of check-in %s: %v", checkIn.ID, err)
	}

	return true, nil
}

// FollowUp applies the progress with bounded retries. If it still fails with
// a transient error, an event is published for the progress worker.
func (u *Updater) FollowUp(ctx context.Context, checkInID string) {
	cfg := xcontext.Configs(ctx).CheckIn
	base := cfg.ProgressBackoff
	if base <= 0 {
		base = defaultBackoff
	}

	backoff := retry.WithMaxRetries(uint64(cfg.ProgressRetries), retry.NewExponential(base))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := u.Apply(ctx, checkInID)
		if errorx.IsRetryable(err) {
			return retry.RetryableError(err)
		}

		return err
	})

	if err == nil {
		common.IncCounter(common.ProgressFollowUpTotal, "applied")
		return
	}

	if !errorx.IsRetryable(err) {
		xcontext.Logger(ctx).Errorf("Cannot apply progress of check-in %s: %v", checkInID, err)
		common.IncCounter(common.ProgressFollowUpTotal, "failed")
		return
	}

	b, err := json.Marshal(Event{CheckInID: checkInID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal progress event: %v", err)
		common.IncCounter(common.ProgressFollowUpTotal, "failed")
		return
	}

	err = u.publisher.Publish(ctx, Topic, &pubsub.Pack{Key: []byte(checkInID), Msg: b})
	if err != nil {
		// Still recovered by the sweep job.
		xcontext.Logger(ctx).Errorf("Cannot publish progress event of check-in %s: %v", checkInID, err)
		common.IncCounter(common.ProgressFollowUpTotal, "failed")
		return
	}

	common.IncCounter(common.ProgressFollowUpTotal, "deferred")
}

// Subscribe handles the events published by FollowUp.
func (u *Updater) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event Event
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal progress event: %v", err)
		return
	}

	applied, err := u.Apply(ctx, event.CheckInID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply progress of check-in %s: %v", event.CheckInID, err)
		return
	}

	if applied {
		xcontext.Logger(ctx).Infof("Applied progress of check-in %s published at %s",
			event.CheckInID, t.Format(time.RFC3339))
	}
}

// Sweep applies the progress of at most limit check-ins created before the
// given time which have not been applied yet. It returns the number of
// applied check-ins.
func (u *Updater) Sweep(ctx context.Context, before time.Time, limit int) (int, error) {
	checkIns, err := u.checkInRepo.GetUnapplied(ctx, before, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get unapplied check-ins: %v", err)
		return 0, errorx.Classify(err)
	}

	count := 0
	for _, c := range checkIns {
		applied, err := u.Apply(ctx, c.ID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot apply progress of check-in %s: %v", c.ID, err)
			continue
		}

		if applied {
			count++
		}
	}

	return count, nil
}
