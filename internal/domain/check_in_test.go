package domain

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stakefit/backend/internal/domain/leaderboard"
	"github.com/stakefit/backend/internal/domain/progress"
	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/pubsub"
	"github.com/stakefit/backend/pkg/testutil"
	"github.com/stakefit/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

// unavailableCheckInRepository fails every progress read with a transient
// error.
type unavailableCheckInRepository struct {
	repository.CheckInRepository
}

func (r *unavailableCheckInRepository) GetByID(ctx context.Context, id string) (*entity.CheckIn, error) {
	return nil, context.DeadlineExceeded
}

type checkInTestSuite struct {
	domain    *checkInDomain
	challenge *challengeDomain
	ledger    *ledgerDomain
}

func newCheckInTestSuite(
	t *testing.T, ctx context.Context,
	updaterCheckInRepo repository.CheckInRepository,
	publisher pubsub.Publisher,
) *checkInTestSuite {
	challengeRepo := repository.NewChallengeRepository()
	participantRepo := repository.NewParticipantRepository()
	checkInRepo := repository.NewCheckInRepository()
	transactionRepo := repository.NewTransactionRepository()
	balanceRepo := repository.NewBalanceRepository()
	lb := leaderboard.New(participantRepo, testutil.NewMockRedisClient())

	if updaterCheckInRepo == nil {
		updaterCheckInRepo = checkInRepo
	}

	updater := progress.NewUpdater(updaterCheckInRepo, participantRepo, lb, publisher)
	challenge := newTestChallengeDomain(t, ctx)
	challenge.leaderboard = lb

	return &checkInTestSuite{
		domain: NewCheckInDomain(
			challengeRepo, participantRepo, checkInRepo, transactionRepo, balanceRepo, updater),
		challenge: challenge,
		ledger:    NewLedgerDomain(transactionRepo, balanceRepo),
	}
}

func balanceOf(t *testing.T, suite *checkInTestSuite, ctx context.Context) int64 {
	resp, err := suite.ledger.GetBalance(ctx, &model.GetBalanceRequest{})
	require.NoError(t, err)
	return resp.Balance
}

func TestCheckInDomain_SquatChallenge(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	suite := newCheckInTestSuite(t, ctx, nil, testutil.NewRecordPublisher())
	user2Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)

	_, err := suite.challenge.Join(user2Ctx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)

	resp, err := suite.domain.CheckIn(user2Ctx, &model.CheckInRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)
	require.True(t, resp.Accepted)
	require.NotEmpty(t, resp.CheckInID)
	require.Nil(t, resp.DistanceMeters)
	require.Equal(t, int64(50), resp.Reward)
	require.Equal(t, int64(1050), balanceOf(t, suite, user2Ctx))

	txResp, err := suite.ledger.GetTransactions(user2Ctx, &model.GetTransactionsRequest{})
	require.NoError(t, err)
	require.Len(t, txResp.Transactions, 1)
	require.Equal(t, "earn", txResp.Transactions[0].Category)
	require.Equal(t, "Check-in reward: 7-Day Squat", txResp.Transactions[0].Description)
	require.Equal(t, resp.CheckInID, txResp.Transactions[0].CheckInID)

	participant, err := repository.NewParticipantRepository().
		Get(ctx, testutil.Challenge1.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, 1, participant.Progress)

	lbResp, err := suite.challenge.GetLeaderboard(ctx, &model.GetChallengeLeaderboardRequest{
		ChallengeID: testutil.Challenge1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, lbResp.Leaderboard[0].UserID)
	require.Equal(t, 1, lbResp.Leaderboard[0].CheckIns)

	// A second check-in on the same day is rejected without reward.
	_, err = suite.domain.CheckIn(user2Ctx, &model.CheckInRequest{ChallengeID: testutil.Challenge1.ID})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Already checked in the challenge today"), err)
	require.Equal(t, int64(1050), balanceOf(t, suite, user2Ctx))
}

func TestCheckInDomain_Geofence(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	suite := newCheckInTestSuite(t, ctx, nil, testutil.NewRecordPublisher())
	user3Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User3.ID)

	_, err := suite.challenge.Join(user3Ctx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge2.ID})
	require.NoError(t, err)

	_, err = suite.domain.CheckIn(user3Ctx, &model.CheckInRequest{ChallengeID: testutil.Challenge2.ID})
	require.Equal(t, errorx.New(errorx.BadRequest, "Location is required to check in this challenge"), err)

	badLat, lon := -91.0, testutil.CentralParkLongitude
	_, err = suite.domain.CheckIn(user3Ctx, &model.CheckInRequest{
		ChallengeID: testutil.Challenge2.ID,
		Latitude:    &badLat,
		Longitude:   &lon,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Location is out of range"), err)

	// About 390 meters east of the target.
	farLat, farLon := 40.7829, -73.9700
	resp, err := suite.domain.CheckIn(user3Ctx, &model.CheckInRequest{
		ChallengeID: testutil.Challenge2.ID,
		Latitude:    &farLat,
		Longitude:   &farLon,
	})
	require.NoError(t, err)
	require.False(t, resp.Accepted)
	require.NotNil(t, resp.DistanceMeters)
	require.InDelta(t, 388, *resp.DistanceMeters, 2)
	require.Empty(t, resp.CheckInID)
	require.Equal(t, int64(1000), balanceOf(t, suite, user3Ctx))

	lat, lon := testutil.CentralParkLatitude, testutil.CentralParkLongitude
	resp, err = suite.domain.CheckIn(user3Ctx, &model.CheckInRequest{
		ChallengeID: testutil.Challenge2.ID,
		Latitude:    &lat,
		Longitude:   &lon,
	})
	require.NoError(t, err)
	require.True(t, resp.Accepted)
	require.NotNil(t, resp.DistanceMeters)
	require.InDelta(t, 0, *resp.DistanceMeters, 0.001)
	require.Equal(t, int64(20), resp.Reward)
	require.Equal(t, int64(1020), balanceOf(t, suite, user3Ctx))
}

func TestCheckInDomain_ZeroStake(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	suite := newCheckInTestSuite(t, ctx, nil, testutil.NewRecordPublisher())
	user1Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	resp, err := suite.domain.CheckIn(user1Ctx, &model.CheckInRequest{ChallengeID: testutil.Challenge3.ID})
	require.NoError(t, err)
	require.True(t, resp.Accepted)
	require.Equal(t, int64(0), resp.Reward)

	txResp, err := suite.ledger.GetTransactions(user1Ctx, &model.GetTransactionsRequest{})
	require.NoError(t, err)
	require.Empty(t, txResp.Transactions)
}

func TestCheckInDomain_Rejected(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	suite := newCheckInTestSuite(t, ctx, nil, testutil.NewRecordPublisher())

	user3Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User3.ID)
	_, err := suite.domain.CheckIn(user3Ctx, &model.CheckInRequest{ChallengeID: testutil.Challenge1.ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "User is not a participant of the challenge"), err)

	_, err = suite.domain.CheckIn(user3Ctx, &model.CheckInRequest{ChallengeID: "invalid"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found challenge"), err)

	_, err = suite.domain.CheckIn(user3Ctx, &model.CheckInRequest{})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	user1Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	err = xcontext.DB(ctx).Model(&entity.Challenge{}).
		Where("id=?", testutil.Challenge1.ID).
		Update("end_at", time.Now().UTC().Add(-time.Minute)).Error
	require.NoError(t, err)

	_, err = suite.domain.CheckIn(user1Ctx, &model.CheckInRequest{ChallengeID: testutil.Challenge1.ID})
	require.Equal(t, errorx.New(errorx.BadRequest, "Challenge has ended"), err)

	err = xcontext.DB(ctx).Model(&entity.Challenge{}).
		Where("id=?", testutil.Challenge3.ID).
		Update("start_at", time.Now().UTC().Add(time.Hour)).Error
	require.NoError(t, err)

	_, err = suite.domain.CheckIn(user1Ctx, &model.CheckInRequest{ChallengeID: testutil.Challenge3.ID})
	require.Equal(t, errorx.New(errorx.BadRequest, "Challenge has not started yet"), err)
}

func TestCheckInDomain_ProgressFailureKeepsReward(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	publisher := testutil.NewRecordPublisher()
	suite := newCheckInTestSuite(t, ctx, &unavailableCheckInRepository{}, publisher)
	user1Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	resp, err := suite.domain.CheckIn(user1Ctx, &model.CheckInRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)
	require.True(t, resp.Accepted)
	require.Equal(t, int64(1050), balanceOf(t, suite, user1Ctx))

	// The progress is deferred to the subscriber.
	packs := publisher.Get(progress.Topic)
	require.Len(t, packs, 1)

	var event progress.Event
	require.NoError(t, json.Unmarshal(packs[0].Msg, &event))
	require.Equal(t, resp.CheckInID, event.CheckInID)

	participant, err := repository.NewParticipantRepository().
		Get(ctx, testutil.Challenge1.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 0, participant.Progress)
}
