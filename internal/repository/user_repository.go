package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-planner/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"password_hash": hash}, "update password")
}

// UpdateProfile sets the name, and the avatar when avatar is non-nil.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name string, avatar *string) error {
	updates := map[string]interface{}{"name": name}
	if avatar != nil {
		updates["avatar"] = *avatar
	}
	return r.updateColumns(ctx, id, updates, "update profile")
}

// UpdateDeviceToken replaces the stored push token. A nil token clears it.
func (r *UserRepository) UpdateDeviceToken(ctx context.Context, id uuid.UUID, token *string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"device_token": token}, "update device token")
}

func (r *UserRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]interface{}, op string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListDeviceTokens returns the device token of every user that has one, in
// user creation order. Values are not de-duplicated.
func (r *UserRepository) ListDeviceTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("device_token IS NOT NULL AND device_token <> ?", "").
		Order("created_at ASC").
		Pluck("device_token", &tokens).Error; err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	return tokens, nil
}
