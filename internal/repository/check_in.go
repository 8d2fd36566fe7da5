package repository

import (
	"context"
	"time"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type FeedItem struct {
	entity.CheckIn
	ChallengeName string
}

type CheckInRepository interface {
	Create(ctx context.Context, data *entity.CheckIn) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.CheckIn, error)
	MarkProgressApplied(ctx context.Context, id string) (bool, error)
	GetUnapplied(ctx context.Context, before time.Time, limit int) ([]entity.CheckIn, error)
	GetFeed(ctx context.Context, followerID string, limit int) ([]FeedItem, error)
}

type checkInRepository struct{}

func NewCheckInRepository() *checkInRepository {
	return &checkInRepository{}
}

// Create returns false if the user has already checked in the challenge on the
// same day.
func (r *checkInRepository) Create(ctx context.Context, data *entity.CheckIn) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *checkInRepository) GetByID(ctx context.Context, id string) (*entity.CheckIn, error) {
	var result entity.CheckIn
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// MarkProgressApplied returns true only for the caller which flips the flag.
func (r *checkInRepository) MarkProgressApplied(ctx context.Context, id string) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.CheckIn{}).
		Where("id=? AND progress_applied=?", id, false).
		Update("progress_applied", true)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (r *checkInRepository) GetUnapplied(
	ctx context.Context, before time.Time, limit int,
) ([]entity.CheckIn, error) {
	var result []entity.CheckIn
	err := xcontext.DB(ctx).
		Where("progress_applied=? AND created_at<?", false, before.UTC()).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetFeed returns the newest check-ins of the users followed by followerID.
// Check-ins of private challenges are only visible to their participants.
func (r *checkInRepository) GetFeed(ctx context.Context, followerID string, limit int) ([]FeedItem, error) {
	var result []FeedItem
	err := xcontext.DB(ctx).Model(&entity.CheckIn{}).
		Select("check_ins.*, challenges.name AS challenge_name").
		Joins("join follows on follows.followee_id=check_ins.user_id").
		Joins("join challenges on challenges.id=check_ins.challenge_id").
		Where("follows.follower_id=?", followerID).
		Where("(challenges.visibility=? OR EXISTS (?))", entity.ChallengePublic,
			xcontext.DB(ctx).Model(&entity.ChallengeParticipant{}).
				Select("1").
				Where("challenge_participants.challenge_id=check_ins.challenge_id").
				Where("challenge_participants.user_id=?", followerID)).
		Order("check_ins.created_at DESC").
		Order("check_ins.id DESC").
		Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
