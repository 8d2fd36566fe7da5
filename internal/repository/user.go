package repository

import (
	"context"
	"errors"

	"github.com/fatih/structs"
	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// UserUpdate holds the mutable profile fields. Empty fields are left
// unchanged.
type UserUpdate struct {
	FirstName       string `structs:"first_name,omitempty"`
	LastName        string `structs:"last_name,omitempty"`
	Phone           string `structs:"phone,omitempty"`
	ProfileImageURL string `structs:"profile_image_url,omitempty"`
}

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, data UserUpdate) error
	GetSuggestions(ctx context.Context, userID string, limit int) ([]entity.User, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "username=?", username).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, data UserUpdate) error {
	updateMap := structs.Map(data)
	if len(updateMap) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap)
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

// GetSuggestions returns users which userID does not follow yet, newest
// first.
func (r *userRepository) GetSuggestions(ctx context.Context, userID string, limit int) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Where("id<>?", userID).
		Where("id NOT IN (?)", xcontext.DB(ctx).Model(&entity.Follow{}).
			Select("followee_id").Where("follower_id=?", userID)).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
