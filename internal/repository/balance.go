package repository

import (
	"context"
	"errors"
	"time"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

type BalanceRepository interface {
	Get(ctx context.Context, userID string) (*entity.Balance, error)
	GetAll(ctx context.Context) ([]entity.Balance, error)
	Increase(ctx context.Context, userID string, amount int64) error
	CompareAndSet(ctx context.Context, userID string, expected, total int64) (bool, error)
}

type balanceRepository struct{}

func NewBalanceRepository() *balanceRepository {
	return &balanceRepository{}
}

// Get returns a zero balance if the user has never recorded any transaction.
func (r *balanceRepository) Get(ctx context.Context, userID string) (*entity.Balance, error) {
	var result entity.Balance
	err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.Balance{UserID: userID}, nil
		}

		return nil, err
	}

	return &result, nil
}

func (r *balanceRepository) GetAll(ctx context.Context) ([]entity.Balance, error) {
	var result []entity.Balance
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Increase adds amount (may be negative) to the total of the user. The
// update is rejected with ErrInsufficientBalance if it would make the
// balance, base balance included, negative.
func (r *balanceRepository) Increase(ctx context.Context, userID string, amount int64) error {
	err := xcontext.DB(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.Balance{UserID: userID, Total: 0, UpdatedAt: time.Now()}).Error
	if err != nil {
		return err
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Balance{}).
		Where("user_id=? AND total+?>=?", userID, amount, -entity.BaseBalance).
		Updates(map[string]any{
			"total":      gorm.Expr("total+?", amount),
			"updated_at": time.Now(),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return ErrInsufficientBalance
	}

	return nil
}

// CompareAndSet overwrites the total only if it still equals expected. It
// returns false if the balance changed in the meantime or does not exist.
func (r *balanceRepository) CompareAndSet(
	ctx context.Context, userID string, expected, total int64,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Balance{}).
		Where("user_id=? AND total=?", userID, expected).
		Updates(map[string]any{
			"total":      total,
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}
