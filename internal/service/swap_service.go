package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"skillswap/config"
	"skillswap/internal/dto"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	pkgerrors "skillswap/pkg/errors"
	"skillswap/pkg/metrics"
	"skillswap/pkg/mq"
)

const (
	maxSkillLen        = 50
	maxMessageLen      = 1000
	maxProposedTimeLen = 200
	maxFeedbackLen     = 500
)

// SwapService 交换请求生命周期接口
type SwapService interface {
	Create(ctx context.Context, callerID string, req *dto.CreateSwapRequest) (*dto.SwapResponse, error)
	Get(ctx context.Context, callerID, id string) (*dto.SwapResponse, error)
	List(ctx context.Context, callerID string, req *dto.SwapListRequest) ([]dto.SwapResponse, error)
	Accept(ctx context.Context, callerID, id string) (*dto.SwapResponse, error)
	Reject(ctx context.Context, callerID, id string) (*dto.SwapResponse, error)
	Cancel(ctx context.Context, callerID, id string) (*dto.SwapResponse, error)
	// Complete 未附评分时立即完成；附评分时写入调用方槽位，双方均评分后完成
	Complete(ctx context.Context, callerID, id string, req *dto.CompleteSwapRequest) (*dto.SwapResponse, error)
}

type swapService struct {
	repo       *repository.Repository
	rating     RatingService
	events     eventEmitter
	maxRetries int
	logger     *zap.Logger
	now        func() time.Time
}

// NewSwapService 创建 SwapService 实例
func NewSwapService(
	cfg *config.Config,
	repo *repository.Repository,
	rating RatingService,
	publisher mq.Publisher,
	logger *zap.Logger,
) SwapService {
	return &swapService{
		repo:       repo,
		rating:     rating,
		events:     eventEmitter{publisher: publisher, logger: logger},
		maxRetries: cfg.Swap.MaxRetries,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ═══════════════════════════════════════════════════════════
// Create
// ═══════════════════════════════════════════════════════════

func (s *swapService) Create(ctx context.Context, callerID string, req *dto.CreateSwapRequest) (*dto.SwapResponse, error) {
	swap, err := s.create(ctx, callerID, req)
	s.observe(ActionCreate, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("交换请求已创建",
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("from_user_id", swap.FromUserID),
		zap.String("to_user_id", swap.ToUserID),
	)
	s.events.emit(ctx, EventSwapCreated, callerID, swap)
	return toSwapResponse(swap), nil
}

func (s *swapService) create(ctx context.Context, callerID string, req *dto.CreateSwapRequest) (*model.SwapRequest, error) {
	// 1. 字段校验
	swap, err := newSwapFromRequest(callerID, req)
	if err != nil {
		return nil, err
	}

	// 2. 并发加载双方资料
	var fromUser, toUser *model.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.repo.User.GetByID(gctx, swap.ToUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSwapTargetNotFound
			}
			return err
		}
		toUser = u
		return nil
	})
	g.Go(func() error {
		u, err := s.repo.User.GetByID(gctx, swap.FromUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		fromUser = u
		return nil
	})
	if err := g.Wait(); err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindInternal {
			s.logger.Error("查询交换双方失败", zap.Error(err))
		}
		return nil, err
	}

	// 3. 目标可见性
	if !toUser.IsPublic {
		return nil, ErrSwapTargetPrivate
	}

	// 4. 唯一性检查与插入同事务，唯一索引兜底并发写入
	err = s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		exists, err := txRepo.SwapRequest.ExistsPendingBetween(ctx, swap.FromUserID, swap.ToUserID)
		if err != nil {
			return err
		}
		if exists {
			return ErrSwapPendingExists
		}

		if !toUser.SkillsOffered.Contains(swap.RequestedSkill) {
			return ErrSwapSkillNotOffered
		}
		if !fromUser.SkillsOffered.Contains(swap.OfferedSkill) {
			return ErrSwapSkillNotOwned
		}

		if err := txRepo.SwapRequest.Create(ctx, swap); err != nil {
			if errors.Is(err, repository.ErrDuplicatePending) {
				return ErrSwapPendingExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindInternal {
			s.logger.Error("创建交换请求失败", zap.Error(err))
		}
		return nil, err
	}

	swap.FromUser = fromUser
	swap.ToUser = toUser
	return swap, nil
}

// newSwapFromRequest 校验字段并构造 pending 记录
func newSwapFromRequest(callerID string, req *dto.CreateSwapRequest) (*model.SwapRequest, error) {
	toUserID := strings.TrimSpace(req.ToUserID)
	requested := strings.TrimSpace(req.RequestedSkill)
	offered := strings.TrimSpace(req.OfferedSkill)
	message := strings.TrimSpace(req.Message)
	proposed := strings.TrimSpace(req.ProposedTime)

	switch {
	case toUserID == "":
		return nil, invalidInput("to_user_id 不能为空")
	case requested == "":
		return nil, invalidInput("requested_skill 不能为空")
	case offered == "":
		return nil, invalidInput("offered_skill 不能为空")
	case message == "":
		return nil, invalidInput("message 不能为空")
	case proposed == "":
		return nil, invalidInput("proposed_time 不能为空")
	case utf8.RuneCountInString(requested) > maxSkillLen || utf8.RuneCountInString(offered) > maxSkillLen:
		return nil, invalidInput("技能名称不能超过 50 字")
	case utf8.RuneCountInString(message) > maxMessageLen:
		return nil, invalidInput("message 不能超过 1000 字")
	case utf8.RuneCountInString(proposed) > maxProposedTimeLen:
		return nil, invalidInput("proposed_time 不能超过 200 字")
	case toUserID == callerID:
		return nil, ErrSwapSelfRequest
	}

	return &model.SwapRequest{
		FromUserID:     callerID,
		ToUserID:       toUserID,
		RequestedSkill: requested,
		OfferedSkill:   offered,
		Status:         model.SwapStatusPending,
		Message:        message,
		ProposedTime:   proposed,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// Get / List
// ═══════════════════════════════════════════════════════════

func (s *swapService) Get(ctx context.Context, callerID, id string) (*dto.SwapResponse, error) {
	swap, err := s.loadSwap(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if swap.ParticipantOf(callerID) == model.NotParticipant {
		return nil, ErrSwapNotParticipant
	}
	return toSwapResponse(swap), nil
}

func (s *swapService) List(ctx context.Context, callerID string, req *dto.SwapListRequest) ([]dto.SwapResponse, error) {
	filter := repository.SwapFilter{
		Status: model.SwapStatus(req.Status),
		Role:   repository.SwapRole(req.Role),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalidInput("status 取值无效")
	}
	switch filter.Role {
	case repository.SwapRoleAny, repository.SwapRoleIncoming, repository.SwapRoleOutgoing:
	default:
		return nil, invalidInput("role 取值无效")
	}

	swaps, err := s.repo.SwapRequest.ListByParticipant(ctx, callerID, filter)
	if err != nil {
		s.logger.Error("查询交换请求列表失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SwapResponse, 0, len(swaps))
	for i := range swaps {
		result = append(result, *toSwapResponse(&swaps[i]))
	}
	return result, nil
}

// ═══════════════════════════════════════════════════════════
// Accept / Reject / Cancel
// ═══════════════════════════════════════════════════════════

func (s *swapService) Accept(ctx context.Context, callerID, id string) (*dto.SwapResponse, error) {
	return s.transition(ctx, ActionAccept, EventSwapAccepted, callerID, id)
}

func (s *swapService) Reject(ctx context.Context, callerID, id string) (*dto.SwapResponse, error) {
	return s.transition(ctx, ActionReject, EventSwapRejected, callerID, id)
}

func (s *swapService) Cancel(ctx context.Context, callerID, id string) (*dto.SwapResponse, error) {
	return s.transition(ctx, ActionCancel, EventSwapCancelled, callerID, id)
}

// transition 仅修改请求记录本身的简单状态迁移
func (s *swapService) transition(ctx context.Context, action SwapAction, eventType, callerID, id string) (*dto.SwapResponse, error) {
	var swap *model.SwapRequest
	err := s.withRetry(ctx, action, func() error {
		return s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
			loaded, err := s.loadSwap(ctx, txRepo, id)
			if err != nil {
				return err
			}
			_, next, err := authorizeTransition(loaded, action, callerID)
			if err != nil {
				return err
			}

			loaded.Status = next
			if next == model.SwapStatusAccepted {
				now := s.now()
				loaded.AcceptedAt = &now
			}
			if err := txRepo.SwapRequest.Update(ctx, loaded); err != nil {
				return err
			}
			swap = loaded
			return nil
		})
	})
	s.observe(action, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("交换请求状态变更",
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("action", string(action)),
		zap.String("actor_id", callerID),
		zap.String("status", string(swap.Status)),
	)
	s.events.emit(ctx, eventType, callerID, swap)
	return toSwapResponse(swap), nil
}

// ═══════════════════════════════════════════════════════════
// Complete
// ═══════════════════════════════════════════════════════════

func (s *swapService) Complete(ctx context.Context, callerID, id string, req *dto.CompleteSwapRequest) (*dto.SwapResponse, error) {
	rating, feedback, err := parseCompletion(req)
	if err != nil {
		s.observe(ActionComplete, err)
		return nil, err
	}

	var (
		swap      *model.SwapRequest
		completed bool
	)
	err = s.withRetry(ctx, ActionComplete, func() error {
		return s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
			loaded, err := s.loadSwap(ctx, txRepo, id)
			if err != nil {
				return err
			}
			p, next, err := authorizeTransition(loaded, ActionComplete, callerID)
			if err != nil {
				return err
			}

			if rating != nil {
				if loaded.Slot(p).Filled() {
					return ErrSwapAlreadyRated
				}
				loaded.SetSlot(p, *rating, feedback)
				if !loaded.BothRated() {
					// 等待另一方评分，状态保持 accepted
					if err := txRepo.SwapRequest.Update(ctx, loaded); err != nil {
						return err
					}
					swap, completed = loaded, false
					return nil
				}
			}

			now := s.now()
			loaded.Status = next
			loaded.CompletedAt = &now
			if err := txRepo.SwapRequest.Update(ctx, loaded); err != nil {
				return err
			}
			if err := s.rating.ApplyCompletion(ctx, txRepo, loaded); err != nil {
				return err
			}
			swap, completed = loaded, true
			return nil
		})
	})
	s.observe(ActionComplete, err)
	if err != nil {
		return nil, err
	}

	if completed {
		s.logger.Info("交换请求已完成",
			zap.String("swap_request_id", swap.SwapRequestID),
			zap.String("actor_id", callerID),
			zap.Bool("dual_rated", swap.BothRated()),
		)
		s.events.emit(ctx, EventSwapCompleted, callerID, swap)
	} else {
		s.logger.Info("交换请求已评分，等待对方评分",
			zap.String("swap_request_id", swap.SwapRequestID),
			zap.String("actor_id", callerID),
		)
		s.events.emit(ctx, EventSwapRated, callerID, swap)
	}
	return toSwapResponse(swap), nil
}

// parseCompletion rating 与 feedback 需同时提供或同时省略
func parseCompletion(req *dto.CompleteSwapRequest) (*int, string, error) {
	if req == nil || (req.Rating == nil && req.Feedback == nil) {
		return nil, "", nil
	}
	if req.Rating == nil || req.Feedback == nil {
		return nil, "", ErrSwapRatingIncomplete
	}
	feedback := strings.TrimSpace(*req.Feedback)
	if *req.Rating < 1 || *req.Rating > 5 || feedback == "" || utf8.RuneCountInString(feedback) > maxFeedbackLen {
		return nil, "", ErrSwapInvalidRating
	}
	rating := *req.Rating
	return &rating, feedback, nil
}

// ── 辅助方法 ──

func (s *swapService) loadSwap(ctx context.Context, repo *repository.Repository, id string) (*model.SwapRequest, error) {
	swap, err := repo.SwapRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		s.logger.Error("查询交换请求失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return swap, nil
}

// withRetry 乐观锁冲突时重新加载并整体重试，耗尽后返回 ErrSwapConflict
func (s *swapService) withRetry(ctx context.Context, action SwapAction, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err = fn()
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return err
		}
		metrics.IncOptimisticRetry(string(action))
		s.logger.Warn("乐观锁冲突，重试",
			zap.String("action", string(action)),
			zap.Int("attempt", attempt+1),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return pkgerrors.Wrap(ErrSwapConflict, err)
}

func (s *swapService) observe(action SwapAction, err error) {
	result := "ok"
	if err != nil {
		result = strings.ToLower(string(pkgerrors.KindOf(err)))
	}
	metrics.IncSwapTransition(string(action), result)
}

func toSwapResponse(swap *model.SwapRequest) *dto.SwapResponse {
	return &dto.SwapResponse{
		ID:               swap.SwapRequestID,
		FromUserID:       swap.FromUserID,
		ToUserID:         swap.ToUserID,
		FromUser:         toUserBrief(swap.FromUser),
		ToUser:           toUserBrief(swap.ToUser),
		RequestedSkill:   swap.RequestedSkill,
		OfferedSkill:     swap.OfferedSkill,
		Status:           string(swap.Status),
		Message:          swap.Message,
		ProposedTime:     swap.ProposedTime,
		AcceptedAt:       swap.AcceptedAt,
		CompletedAt:      swap.CompletedAt,
		FromUserRating:   swap.FromUserRating,
		ToUserRating:     swap.ToUserRating,
		FromUserFeedback: swap.FromUserFeedback,
		ToUserFeedback:   swap.ToUserFeedback,
		CreatedAt:        swap.CreatedAt,
		UpdatedAt:        swap.UpdatedAt,
	}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.UserID, Name: u.Name, Rating: u.Rating}
}
