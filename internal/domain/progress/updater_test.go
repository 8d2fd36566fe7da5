package progress

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stakefit/backend/internal/domain/leaderboard"
	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/pubsub"
	"github.com/stakefit/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

// flakyCheckInRepository fails GetByID with a transient error.
type flakyCheckInRepository struct {
	repository.CheckInRepository
	calls int32
}

func (r *flakyCheckInRepository) GetByID(ctx context.Context, id string) (*entity.CheckIn, error) {
	atomic.AddInt32(&r.calls, 1)
	return nil, context.DeadlineExceeded
}

func createCheckIn(t *testing.T, ctx context.Context, id string, createdAt time.Time) {
	ok, err := repository.NewCheckInRepository().Create(ctx, &entity.CheckIn{
		ID:          id,
		CreatedAt:   createdAt.UTC(),
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User1.ID,
		Day:         createdAt.UTC().Format("2006-01-02"),
	})
	require.NoError(t, err)
	require.True(t, ok)
}

func newUpdater(
	checkInRepo repository.CheckInRepository, publisher pubsub.Publisher,
) (*Updater, leaderboard.Leaderboard) {
	participantRepo := repository.NewParticipantRepository()
	lb := leaderboard.New(participantRepo, testutil.NewMockRedisClient())
	return NewUpdater(checkInRepo, participantRepo, lb, publisher), lb
}

func progressOf(t *testing.T, ctx context.Context) int {
	p, err := repository.NewParticipantRepository().Get(ctx, testutil.Challenge1.ID, testutil.User1.ID)
	require.NoError(t, err)
	return p.Progress
}

func TestUpdater_ApplyIsIdempotent(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	createCheckIn(t, ctx, "check_in1", time.Now())

	updater, lb := newUpdater(repository.NewCheckInRepository(), testutil.NewRecordPublisher())

	// Load the leaderboard before applying.
	_, err := lb.Get(ctx, testutil.Challenge1.ID, 0, 10)
	require.NoError(t, err)

	applied, err := updater.Apply(ctx, "check_in1")
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = updater.Apply(ctx, "check_in1")
	require.NoError(t, err)
	require.False(t, applied)

	require.Equal(t, 1, progressOf(t, ctx))

	entries, err := lb.Get(ctx, testutil.Challenge1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, entries[0].CheckIns)

	_, err = updater.Apply(ctx, "unknown")
	require.Error(t, err)
}

func TestUpdater_ApplyWithoutParticipant(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	createCheckIn(t, ctx, "check_in1", time.Now())

	require.NoError(t, repository.NewParticipantRepository().
		Delete(ctx, testutil.Challenge1.ID, testutil.User1.ID))

	updater, _ := newUpdater(repository.NewCheckInRepository(), testutil.NewRecordPublisher())
	applied, err := updater.Apply(ctx, "check_in1")
	require.NoError(t, err)
	require.True(t, applied)

	c, err := repository.NewCheckInRepository().GetByID(ctx, "check_in1")
	require.NoError(t, err)
	require.True(t, c.ProgressApplied)
}

func TestUpdater_FollowUpPublishesOnTransientFailure(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	publisher := testutil.NewRecordPublisher()
	flaky := &flakyCheckInRepository{CheckInRepository: repository.NewCheckInRepository()}
	updater, _ := newUpdater(flaky, publisher)

	updater.FollowUp(ctx, "check_in1")

	// One attempt and two retries.
	require.Equal(t, int32(3), atomic.LoadInt32(&flaky.calls))

	packs := publisher.Get(Topic)
	require.Len(t, packs, 1)

	var event Event
	require.NoError(t, json.Unmarshal(packs[0].Msg, &event))
	require.Equal(t, "check_in1", event.CheckInID)
}

func TestUpdater_FollowUpApplies(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	createCheckIn(t, ctx, "check_in1", time.Now())

	publisher := testutil.NewRecordPublisher()
	updater, _ := newUpdater(repository.NewCheckInRepository(), publisher)

	updater.FollowUp(ctx, "check_in1")
	require.Equal(t, 1, progressOf(t, ctx))
	require.Empty(t, publisher.Get(Topic))
}

func TestUpdater_Subscribe(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	createCheckIn(t, ctx, "check_in1", time.Now())

	updater, _ := newUpdater(repository.NewCheckInRepository(), testutil.NewRecordPublisher())

	b, err := json.Marshal(Event{CheckInID: "check_in1"})
	require.NoError(t, err)

	updater.Subscribe(ctx, &pubsub.Pack{Key: []byte("check_in1"), Msg: b}, time.Now())
	updater.Subscribe(ctx, &pubsub.Pack{Key: []byte("check_in1"), Msg: b}, time.Now())
	updater.Subscribe(ctx, &pubsub.Pack{Msg: []byte("invalid")}, time.Now())

	require.Equal(t, 1, progressOf(t, ctx))
}

func TestUpdater_Sweep(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	now := time.Now().UTC()
	createCheckIn(t, ctx, "check_in1", now.Add(-48*time.Hour))
	createCheckIn(t, ctx, "check_in2", now.Add(-24*time.Hour))
	createCheckIn(t, ctx, "check_in3", now)

	updater, _ := newUpdater(repository.NewCheckInRepository(), testutil.NewRecordPublisher())

	n, err := updater.Sweep(ctx, now.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 2, progressOf(t, ctx))

	n, err = updater.Sweep(ctx, now.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
