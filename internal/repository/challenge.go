package repository

import (
	"context"
	"time"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type ChallengeRepository interface {
	Create(ctx context.Context, data *entity.Challenge) error
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Challenge, error)
	GetListByParticipant(ctx context.Context, userID string) ([]entity.Challenge, error)
	GetPublicList(ctx context.Context, limit int) ([]entity.Challenge, error)
	GetAllPublic(ctx context.Context) ([]entity.Challenge, error)
	Delete(ctx context.Context, id string) error
	CompleteExpired(ctx context.Context, now time.Time) ([]string, error)
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, data *entity.Challenge) error {
	return xcontext.DB(ctx).Omit(clause.Associations).Create(data).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.Challenge, error) {
	var result entity.Challenge
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Challenge, error) {
	var result []entity.Challenge
	if len(ids) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetListByParticipant returns all challenges which userID participates in,
// newest first.
func (r *challengeRepository) GetListByParticipant(ctx context.Context, userID string) ([]entity.Challenge, error) {
	var result []entity.Challenge
	err := xcontext.DB(ctx).Model(&entity.Challenge{}).
		Joins("join challenge_participants on challenge_participants.challenge_id=challenges.id").
		Where("challenge_participants.user_id=?", userID).
		Order("challenges.created_at DESC").
		Order("challenges.id DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeRepository) GetPublicList(ctx context.Context, limit int) ([]entity.Challenge, error) {
	var result []entity.Challenge
	err := xcontext.DB(ctx).
		Where("visibility=?", entity.ChallengePublic).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeRepository) GetAllPublic(ctx context.Context) ([]entity.Challenge, error) {
	var result []entity.Challenge
	err := xcontext.DB(ctx).Where("visibility=?", entity.ChallengePublic).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeRepository) Delete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Challenge{}, "id=?", id).Error
}

// CompleteExpired moves all active challenges ending before now to completed
// and returns their ids.
func (r *challengeRepository) CompleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	err := xcontext.DB(ctx).Model(&entity.Challenge{}).
		Where("status=? AND end_at<=?", entity.ChallengeActive, now.UTC()).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	err = xcontext.DB(ctx).Model(&entity.Challenge{}).
		Where("id IN (?) AND status=?", ids, entity.ChallengeActive).
		Update("status", entity.ChallengeCompleted).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
