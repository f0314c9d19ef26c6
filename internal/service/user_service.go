package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skillswap/internal/dto"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	pkgerrors "skillswap/pkg/errors"
)

// profileUpdateAttempts 资料更新遇乐观锁冲突时的总尝试次数
const profileUpdateAttempts = 3

// UserService 用户目录业务接口
type UserService interface {
	// GetProfile 私密资料仅本人可见
	GetProfile(ctx context.Context, callerID, id string) (*dto.UserResponse, error)
	// UpdateProfile 更新本人资料，不涉及 rating / swap_count
	UpdateProfile(ctx context.Context, callerID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetProfile(ctx context.Context, callerID, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	self := user.UserID == callerID
	if !user.IsPublic && !self {
		return nil, ErrProfilePrivate
	}
	return toUserResponse(user, self), nil
}

func (s *userService) UpdateProfile(ctx context.Context, callerID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	for attempt := 0; attempt < profileUpdateAttempts; attempt++ {
		user, err := s.getUser(ctx, callerID)
		if err != nil {
			return nil, err
		}
		applyProfileUpdate(user, req)

		err = s.repo.User.UpdateProfile(ctx, user)
		if err == nil {
			s.logger.Info("用户资料已更新", zap.String("user_id", callerID))
			return toUserResponse(user, true), nil
		}
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新用户资料失败", zap.String("user_id", callerID), zap.Error(err))
			return nil, err
		}
	}
	return nil, ErrProfileConflict
}

func applyProfileUpdate(user *model.User, req *dto.UpdateProfileRequest) {
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		user.Location = strings.TrimSpace(*req.Location)
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.SkillsOffered != nil {
		user.SkillsOffered = normalizeSkills(*req.SkillsOffered)
	}
	if req.SkillsWanted != nil {
		user.SkillsWanted = normalizeSkills(*req.SkillsWanted)
	}
	if req.IsPublic != nil {
		user.IsPublic = *req.IsPublic
	}
}

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}
