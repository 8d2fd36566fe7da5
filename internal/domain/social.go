package domain

import (
	"context"
	"errors"
	"time"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type SocialDomain interface {
	Follow(context.Context, *model.FollowRequest) (*model.FollowResponse, error)
	Unfollow(context.Context, *model.UnfollowRequest) (*model.UnfollowResponse, error)
	GetFollowing(context.Context, *model.GetFollowingRequest) (*model.GetFollowingResponse, error)
	GetFollowers(context.Context, *model.GetFollowersRequest) (*model.GetFollowersResponse, error)
	GetSuggestedFriends(context.Context, *model.GetSuggestedFriendsRequest) (*model.GetSuggestedFriendsResponse, error)
	GetFeed(context.Context, *model.GetFeedRequest) (*model.GetFeedResponse, error)
}

type socialDomain struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	checkInRepo repository.CheckInRepository
}

func NewSocialDomain(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	checkInRepo repository.CheckInRepository,
) *socialDomain {
	return &socialDomain{
		userRepo:    userRepo,
		followRepo:  followRepo,
		checkInRepo: checkInRepo,
	}
}

func (d *socialDomain) Follow(ctx context.Context, req *model.FollowRequest) (*model.FollowResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if req.UserID == followerID {
		return nil, errorx.New(errorx.BadRequest, "Cannot follow yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Classify(err)
	}

	err := d.followRepo.Create(ctx, &entity.Follow{
		FollowerID: followerID,
		FolloweeID: req.UserID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create follow: %v", err)
		return nil, errorx.Classify(err)
	}

	return &model.FollowResponse{}, nil
}

func (d *socialDomain) Unfollow(ctx context.Context, req *model.UnfollowRequest) (*model.UnfollowResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if err := d.followRepo.Delete(ctx, xcontext.RequestUserID(ctx), req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete follow: %v", err)
		return nil, errorx.Classify(err)
	}

	return &model.UnfollowResponse{}, nil
}

func (d *socialDomain) GetFollowing(
	ctx context.Context, req *model.GetFollowingRequest,
) (*model.GetFollowingResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	ids, err := d.followRepo.GetFolloweeIDs(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followees: %v", err)
		return nil, errorx.Classify(err)
	}

	if ids == nil {
		ids = []string{}
	}

	return &model.GetFollowingResponse{UserIDs: ids}, nil
}

func (d *socialDomain) GetFollowers(
	ctx context.Context, req *model.GetFollowersRequest,
) (*model.GetFollowersResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	ids, err := d.followRepo.GetFollowerIDs(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followers: %v", err)
		return nil, errorx.Classify(err)
	}

	if ids == nil {
		ids = []string{}
	}

	return &model.GetFollowersResponse{UserIDs: ids}, nil
}

func (d *socialDomain) GetSuggestedFriends(
	ctx context.Context, req *model.GetSuggestedFriendsRequest,
) (*model.GetSuggestedFriendsResponse, error) {
	limit, err := normalizeLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	users, err := d.userRepo.GetSuggestions(ctx, xcontext.RequestUserID(ctx), limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get suggested friends: %v", err)
		return nil, errorx.Classify(err)
	}

	clientUsers := []model.User{}
	for i := range users {
		clientUsers = append(clientUsers, model.ConvertUser(&users[i], false))
	}

	return &model.GetSuggestedFriendsResponse{Users: clientUsers}, nil
}

func (d *socialDomain) GetFeed(ctx context.Context, req *model.GetFeedRequest) (*model.GetFeedResponse, error) {
	limit, err := normalizeLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	items, err := d.checkInRepo.GetFeed(ctx, xcontext.RequestUserID(ctx), limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get feed: %v", err)
		return nil, errorx.Classify(err)
	}

	checkIns := []model.CheckIn{}
	for i := range items {
		checkIns = append(checkIns, model.ConvertCheckIn(&items[i].CheckIn, items[i].ChallengeName))
	}

	return &model.GetFeedResponse{CheckIns: checkIns}, nil
}
