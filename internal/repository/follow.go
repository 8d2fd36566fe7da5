package repository

import (
	"context"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	Create(ctx context.Context, data *entity.Follow) error
	Delete(ctx context.Context, followerID, followeeID string) error
	GetFolloweeIDs(ctx context.Context, followerID string) ([]string, error)
	GetFollowerIDs(ctx context.Context, followeeID string) ([]string, error)
}

type followRepository struct{}

func NewFollowRepository() *followRepository {
	return &followRepository{}
}

func (r *followRepository) Create(ctx context.Context, data *entity.Follow) error {
	return xcontext.DB(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	return xcontext.DB(ctx).
		Delete(&entity.Follow{}, "follower_id=? AND followee_id=?", followerID, followeeID).Error
}

func (r *followRepository) GetFolloweeIDs(ctx context.Context, followerID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Follow{}).
		Where("follower_id=?", followerID).
		Order("created_at ASC").
		Order("followee_id ASC").
		Pluck("followee_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followRepository) GetFollowerIDs(ctx context.Context, followeeID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Follow{}).
		Where("followee_id=?", followeeID).
		Order("created_at ASC").
		Order("follower_id ASC").
		Pluck("follower_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
