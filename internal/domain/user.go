package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/stakefit/backend/internal/common"
	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/storage"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	UpdateUser(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	UploadAvatar(context.Context, *model.UploadAvatarRequest) (*model.UploadAvatarResponse, error)
}

type userDomain struct {
	userRepo    repository.UserRepository
	balanceRepo repository.BalanceRepository
	storage     storage.Storage
}

func NewUserDomain(
	userRepo repository.UserRepository,
	balanceRepo repository.BalanceRepository,
	storage storage.Storage,
) *userDomain {
	return &userDomain{
		userRepo:    userRepo,
		balanceRepo: balanceRepo,
		storage:     storage,
	}
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Classify(err)
	}

	balance, err := d.balanceRepo.Get(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance: %v", err)
		return nil, errorx.Classify(err)
	}

	clientUser := model.ConvertUser(user, true)
	tokenBalance := entity.BaseBalance + balance.Total
	clientUser.TokenBalance = &tokenBalance

	resp := model.GetMeResponse(clientUser)
	return &resp, nil
}

func (d *userDomain) GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Classify(err)
	}

	resp := model.GetUserResponse(model.ConvertUser(user, false))
	return &resp, nil
}

func (d *userDomain) UpdateUser(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	err := d.userRepo.UpdateByID(ctx, xcontext.RequestUserID(ctx), repository.UserUpdate{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Classify(err)
	}

	return &model.UpdateUserResponse{}, nil
}

func (d *userDomain) UploadAvatar(
	ctx context.Context, req *model.UploadAvatarRequest,
) (*model.UploadAvatarResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	images, err := common.ProcessImage(ctx, d.storage, "image", "avatars/"+userID)
	if err != nil {
		return nil, err
	}

	if len(images) == 0 {
		xcontext.Logger(ctx).Errorf("No image uploaded for user %s", userID)
		return nil, errorx.Unknown
	}

	// The first image is the largest one.
	url := images[0].Url
	err = d.userRepo.UpdateByID(ctx, userID, repository.UserUpdate{ProfileImageURL: url})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update profile image: %v", err)
		return nil, errorx.Classify(err)
	}

	return &model.UploadAvatarResponse{URL: url}, nil
}
