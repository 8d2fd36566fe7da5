package domain

import (
	"testing"
	"time"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/testutil"
	"github.com/stakefit/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestSocialDomain() *socialDomain {
	return NewSocialDomain(
		repository.NewUserRepository(),
		repository.NewFollowRepository(),
		repository.NewCheckInRepository(),
	)
}

func TestSocialDomain_Follow(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestSocialDomain()
	user1Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	_, err := domain.Follow(user1Ctx, &model.FollowRequest{UserID: testutil.User1.ID})
	require.Equal(t, errorx.New(errorx.BadRequest, "Cannot follow yourself"), err)

	_, err = domain.Follow(user1Ctx, &model.FollowRequest{UserID: "invalid"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found user"), err)

	// Following twice keeps a single edge.
	for i := 0; i < 2; i++ {
		_, err = domain.Follow(user1Ctx, &model.FollowRequest{UserID: testutil.User2.ID})
		require.NoError(t, err)
	}

	_, err = domain.Follow(user1Ctx, &model.FollowRequest{UserID: testutil.User3.ID})
	require.NoError(t, err)

	followingResp, err := domain.GetFollowing(user1Ctx, &model.GetFollowingRequest{})
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User2.ID, testutil.User3.ID}, followingResp.UserIDs)

	user2Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	followersResp, err := domain.GetFollowers(user2Ctx, &model.GetFollowersRequest{})
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User1.ID}, followersResp.UserIDs)

	// Lists of another user.
	followersResp, err = domain.GetFollowers(user2Ctx, &model.GetFollowersRequest{UserID: testutil.User3.ID})
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User1.ID}, followersResp.UserIDs)
}

func TestSocialDomain_Unfollow(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestSocialDomain()
	user1Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	_, err := domain.Follow(user1Ctx, &model.FollowRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = domain.Unfollow(user1Ctx, &model.UnfollowRequest{UserID: testutil.User2.ID})
		require.NoError(t, err)
	}

	followingResp, err := domain.GetFollowing(user1Ctx, &model.GetFollowingRequest{})
	require.NoError(t, err)
	require.Empty(t, followingResp.UserIDs)
	require.NotNil(t, followingResp.UserIDs)
}

func TestSocialDomain_GetSuggestedFriends(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestSocialDomain()
	user3Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User3.ID)

	_, err := domain.Follow(user3Ctx, &model.FollowRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)

	resp, err := domain.GetSuggestedFriends(user3Ctx, &model.GetSuggestedFriendsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	require.Equal(t, testutil.User2.ID, resp.Users[0].ID)
	require.Empty(t, resp.Users[0].Email)
}

func TestSocialDomain_GetFeed(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestSocialDomain()
	checkInRepo := repository.NewCheckInRepository()

	now := time.Now().UTC()
	checkIns := []*entity.CheckIn{
		{ID: "1", CreatedAt: now.Add(-2 * time.Hour), ChallengeID: testutil.Challenge2.ID, UserID: testutil.User2.ID},
		{ID: "2", CreatedAt: now.Add(-time.Hour), ChallengeID: testutil.Challenge1.ID, UserID: testutil.User1.ID},
		{ID: "3", CreatedAt: now, ChallengeID: testutil.Challenge3.ID, UserID: testutil.User1.ID},
	}
	for _, c := range checkIns {
		c.Day = c.CreatedAt.Format(time.DateOnly)
		created, err := checkInRepo.Create(ctx, c)
		require.NoError(t, err)
		require.True(t, created)
	}

	user3Ctx := testutil.NewMockContextWithUserID(ctx, testutil.User3.ID)
	resp, err := domain.GetFeed(user3Ctx, &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.CheckIns)

	_, err = domain.Follow(user3Ctx, &model.FollowRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	_, err = domain.Follow(user3Ctx, &model.FollowRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)

	// challenge3 is private and user3 does not participate in it.
	resp, err = domain.GetFeed(user3Ctx, &model.GetFeedRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.CheckIns, 2)
	require.Equal(t, "2", resp.CheckIns[0].ID)
	require.Equal(t, testutil.Challenge1.Name, resp.CheckIns[0].ChallengeName)
	require.Equal(t, "1", resp.CheckIns[1].ID)
	require.Equal(t, testutil.Challenge2.Name, resp.CheckIns[1].ChallengeName)

	err = xcontext.DB(ctx).Create(&entity.ChallengeParticipant{
		ChallengeID: testutil.Challenge3.ID,
		UserID:      testutil.User3.ID,
		JoinedAt:    now,
	}).Error
	require.NoError(t, err)

	resp, err = domain.GetFeed(user3Ctx, &model.GetFeedRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.CheckIns, 2)
	require.Equal(t, "3", resp.CheckIns[0].ID)
	require.Equal(t, testutil.Challenge3.Name, resp.CheckIns[0].ChallengeName)
	require.Equal(t, "2", resp.CheckIns[1].ID)
}
