package repository

import (
	"context"
	"errors"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipantRepository interface {
	Create(ctx context.Context, data *entity.ChallengeParticipant) (bool, error)
	Get(ctx context.Context, challengeID, userID string) (*entity.ChallengeParticipant, error)
	GetListByChallengeID(ctx context.Context, challengeID string) ([]entity.ChallengeParticipant, error)
	Delete(ctx context.Context, challengeID, userID string) error
	DeleteByChallengeID(ctx context.Context, challengeID string) error
	IncreaseProgress(ctx context.Context, challengeID, userID string, n int) error
}

type participantRepository struct{}

func NewParticipantRepository() *participantRepository {
	return &participantRepository{}
}

// Create inserts the participant if it does not exist yet. It returns false if
// the participant existed.
func (r *participantRepository) Create(ctx context.Context, data *entity.ChallengeParticipant) (bool, error) {
	tx := xcontext.DB(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *participantRepository) Get(
	ctx context.Context, challengeID, userID string,
) (*entity.ChallengeParticipant, error) {
	var result entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Take(&result, "challenge_id=? AND user_id=?", challengeID, userID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetListByChallengeID returns the participants in join order.
func (r *participantRepository) GetListByChallengeID(
	ctx context.Context, challengeID string,
) ([]entity.ChallengeParticipant, error) {
	var result []entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Where("challenge_id=?", challengeID).
		Order("joined_at ASC").
		Order("user_id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participantRepository) Delete(ctx context.Context, challengeID, userID string) error {
	return xcontext.DB(ctx).
		Delete(&entity.ChallengeParticipant{}, "challenge_id=? AND user_id=?", challengeID, userID).Error
}

func (r *participantRepository) DeleteByChallengeID(ctx context.Context, challengeID string) error {
	return xcontext.DB(ctx).
		Delete(&entity.ChallengeParticipant{}, "challenge_id=?", challengeID).Error
}

func (r *participantRepository) IncreaseProgress(ctx context.Context, challengeID, userID string, n int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=? AND user_id=?", challengeID, userID).
		Update("progress", gorm.Expr("progress+?", n))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
