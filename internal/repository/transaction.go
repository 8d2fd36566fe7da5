package repository

import (
	"context"

	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserTotal struct {
	UserID string
	Total  int64
}

type TransactionRepository interface {
	Create(ctx context.Context, data *entity.Transaction) error
	GetListByUserID(ctx context.Context, userID string, limit int) ([]entity.Transaction, error)
	SumByUserID(ctx context.Context, userID string) (int64, error)
	SumGroupByUser(ctx context.Context) ([]UserTotal, error)
}

type transactionRepository struct{}

func NewTransactionRepository() *transactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(ctx context.Context, data *entity.Transaction) error {
	return xcontext.DB(ctx).Omit(clause.Associations).Create(data).Error
}

// GetListByUserID returns the newest transactions of the user first.
func (r *transactionRepository) GetListByUserID(
	ctx context.Context, userID string, limit int,
) ([]entity.Transaction, error) {
	var result []entity.Transaction
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *transactionRepository) SumByUserID(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := xcontext.DB(ctx).Model(&entity.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id=?", userID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *transactionRepository) SumGroupByUser(ctx context.Context) ([]UserTotal, error) {
	var result []UserTotal
	err := xcontext.DB(ctx).Model(&entity.Transaction{}).
		Select("user_id, SUM(amount) AS total").
		Group("user_id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
