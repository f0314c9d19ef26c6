package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/model"
	pkgerrors "skillswap/pkg/errors"
)

// UserRepository 用户目录数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateProfile 仅更新资料字段，不触碰信誉字段
	UpdateProfile(ctx context.Context, user *model.User) error
	// UpdateReputation 仅更新 rating / swap_count / rating_sum / rating_count
	UpdateReputation(ctx context.Context, user *model.User) error
	ListIDs(ctx context.Context) ([]string, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return mapError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, mapLookupError(err)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	return r.versionedUpdate(ctx, user, map[string]interface{}{
		"name":           user.Name,
		"location":       user.Location,
		"bio":            user.Bio,
		"is_public":      user.IsPublic,
		"skills_offered": user.SkillsOffered,
		"skills_wanted":  user.SkillsWanted,
	})
}

func (r *userRepo) UpdateReputation(ctx context.Context, user *model.User) error {
	return r.versionedUpdate(ctx, user, map[string]interface{}{
		"rating":       user.Rating,
		"swap_count":   user.SwapCount,
		"rating_sum":   user.RatingSum,
		"rating_count": user.RatingCount,
	})
}

func (r *userRepo) versionedUpdate(ctx context.Context, user *model.User, fields map[string]interface{}) error {
	oldVersion := user.Version
	now := time.Now().UTC()
	fields["version"] = oldVersion + 1
	fields["updated_at"] = now

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ? AND version = ?", user.UserID, oldVersion).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version = oldVersion + 1
	user.UpdatedAt = now
	return nil
}

func (r *userRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}
