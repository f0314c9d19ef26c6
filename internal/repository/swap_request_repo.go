package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/model"
	pkgerrors "skillswap/pkg/errors"
)

// SwapRole 列表查询的角色过滤
type SwapRole string

const (
	SwapRoleAny      SwapRole = ""
	SwapRoleIncoming SwapRole = "incoming" // 调用方为接收方
	SwapRoleOutgoing SwapRole = "outgoing" // 调用方为发起方
)

// SwapFilter 交换请求列表过滤条件
type SwapFilter struct {
	Status model.SwapStatus
	Role   SwapRole
}

// SwapRequestRepository 交换请求数据访问接口
type SwapRequestRepository interface {
	// Create 插入新请求；同一用户对已有 pending 时返回 ErrDuplicatePending
	Create(ctx context.Context, swap *model.SwapRequest) error
	GetByID(ctx context.Context, id string) (*model.SwapRequest, error)
	// ExistsPendingBetween 无序用户对之间是否存在 pending 请求
	ExistsPendingBetween(ctx context.Context, userA, userB string) (bool, error)
	ListByParticipant(ctx context.Context, userID string, filter SwapFilter) ([]model.SwapRequest, error)
	// ListCompletedByUser 用户参与的全部已完成请求（评分重算使用）
	ListCompletedByUser(ctx context.Context, userID string) ([]model.SwapRequest, error)
	// Update 乐观锁更新状态、时间戳与评分字段
	Update(ctx context.Context, swap *model.SwapRequest) error
}

type swapRequestRepo struct {
	db *gorm.DB
}

// NewSwapRequestRepo 创建 SwapRequestRepository 实例
func NewSwapRequestRepo(db *gorm.DB) SwapRequestRepository {
	return &swapRequestRepo{db: db}
}

func (r *swapRequestRepo) Create(ctx context.Context, swap *model.SwapRequest) error {
	return mapError(r.db.WithContext(ctx).Omit("FromUser", "ToUser").Create(swap).Error)
}

func (r *swapRequestRepo) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	var swap model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		Where("swap_request_id = ?", id).
		First(&swap).Error
	if err != nil {
		return nil, mapLookupError(err)
	}
	return &swap, nil
}

func (r *swapRequestRepo) ExistsPendingBetween(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SwapRequest{}).
		Where("status = ?", string(model.SwapStatusPending)).
		Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?))",
			userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *swapRequestRepo) ListByParticipant(ctx context.Context, userID string, filter SwapFilter) ([]model.SwapRequest, error) {
	db := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser")

	switch filter.Role {
	case SwapRoleIncoming:
		db = db.Where("to_user_id = ?", userID)
	case SwapRoleOutgoing:
		db = db.Where("from_user_id = ?", userID)
	default:
		db = db.Where("(from_user_id = ? OR to_user_id = ?)", userID, userID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", string(filter.Status))
	}

	var swaps []model.SwapRequest
	if err := db.Order("created_at DESC").Find(&swaps).Error; err != nil {
		return nil, err
	}
	return swaps, nil
}

func (r *swapRequestRepo) ListCompletedByUser(ctx context.Context, userID string) ([]model.SwapRequest, error) {
	var swaps []model.SwapRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", string(model.SwapStatusCompleted)).
		Where("(from_user_id = ? OR to_user_id = ?)", userID, userID).
		Order("completed_at ASC").
		Find(&swaps).Error
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

func (r *swapRequestRepo) Update(ctx context.Context, swap *model.SwapRequest) error {
	oldVersion := swap.Version
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&model.SwapRequest{}).
		Where("swap_request_id = ? AND version = ?", swap.SwapRequestID, oldVersion).
		Updates(map[string]interface{}{
			"status":             string(swap.Status),
			"accepted_at":        swap.AcceptedAt,
			"completed_at":       swap.CompletedAt,
			"from_user_rating":   swap.FromUserRating,
			"to_user_rating":     swap.ToUserRating,
			"from_user_feedback": swap.FromUserFeedback,
			"to_user_feedback":   swap.ToUserFeedback,
			"updated_at":         now,
			"version":            oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	swap.Version = oldVersion + 1
	swap.UpdatedAt = now
	return nil
}
