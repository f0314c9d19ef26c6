package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skillswap/internal/model"
	"skillswap/internal/repository"
)

// RatingService 评分聚合接口
//
// 主路径为增量维护 rating_sum / rating_count；全量重算保留为参照实现，
// 供对账工具与属性测试使用
type RatingService interface {
	// ApplyCompletion 在交换完成的同一事务内更新双方信誉
	ApplyCompletion(ctx context.Context, txRepo *repository.Repository, swap *model.SwapRequest) error
	// Reconcile 全量重算单个用户信誉，漂移时回写；返回是否发生修正
	Reconcile(ctx context.Context, userID string) (bool, error)
	// ReconcileAll 对全部用户执行 Reconcile，返回修正数量
	ReconcileAll(ctx context.Context) (int, error)
}

type ratingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRatingService 创建 RatingService 实例
func NewRatingService(repo *repository.Repository, logger *zap.Logger) RatingService {
	return &ratingService{repo: repo, logger: logger}
}

func (s *ratingService) ApplyCompletion(ctx context.Context, txRepo *repository.Repository, swap *model.SwapRequest) error {
	countSwap := swap.BothRated()
	for _, p := range []model.Participant{model.Requester, model.Recipient} {
		userID := swap.UserOf(p)
		user, err := txRepo.User.GetByID(ctx, userID)
		if err != nil {
			s.logger.Error("评分聚合查询用户失败", zap.String("user_id", userID), zap.Error(err))
			return err
		}

		user.SetReputation(FoldCompletion(user.Reputation(), AttributedRating(swap, p), countSwap))
		if err := txRepo.User.UpdateReputation(ctx, user); err != nil {
			return err
		}
		if p == model.Requester {
			swap.FromUser = user
		} else {
			swap.ToUser = user
		}

		s.logger.Info("用户信誉已更新",
			zap.String("user_id", userID),
			zap.String("swap_request_id", swap.SwapRequestID),
			zap.Float64("rating", user.Rating),
			zap.Int("swap_count", user.SwapCount),
		)
	}
	return nil
}

func (s *ratingService) Reconcile(ctx context.Context, userID string) (bool, error) {
	var changed bool
	err := s.repo.RunInTx(ctx, func(txRepo *repository.Repository) error {
		user, err := txRepo.User.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		history, err := txRepo.SwapRequest.ListCompletedByUser(ctx, userID)
		if err != nil {
			return err
		}

		want := RecomputeFromHistory(userID, history)
		if want == user.Reputation() {
			return nil
		}

		s.logger.Warn("用户信誉与历史不一致，按全量重算修正",
			zap.String("user_id", userID),
			zap.Float64("stored_rating", user.Rating),
			zap.Float64("recomputed_rating", want.Rating),
			zap.Int("stored_swap_count", user.SwapCount),
			zap.Int("recomputed_swap_count", want.SwapCount),
		)
		user.SetReputation(want)
		changed = true
		return txRepo.User.UpdateReputation(ctx, user)
	})
	return changed, err
}

func (s *ratingService) ReconcileAll(ctx context.Context) (int, error) {
	ids, err := s.repo.User.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	fixed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return fixed, err
		}
		changed, err := s.Reconcile(ctx, id)
		if err != nil {
			s.logger.Error("对账失败", zap.String("user_id", id), zap.Error(err))
			return fixed, err
		}
		if changed {
			fixed++
		}
	}
	return fixed, nil
}

// ── 纯函数 ──

// AttributedRating 归属于参与方 p 的评分：发起方取 from_user_rating，接收方取 to_user_rating
func AttributedRating(swap *model.SwapRequest, p model.Participant) *int {
	return swap.Slot(p).Rating
}

// FoldCompletion 将一次完成的交换并入信誉快照
func FoldCompletion(rep model.Reputation, rating *int, countSwap bool) model.Reputation {
	if rating != nil {
		rep.RatingSum += *rating
		rep.RatingCount++
	}
	if countSwap {
		rep.SwapCount++
	}
	rep.Rating = averageOf(rep.RatingSum, rep.RatingCount)
	return rep
}

// AverageRating 全量重算：用户参与的全部 completed 请求中归属于该用户的非空评分均值，无评分为 0
func AverageRating(userID string, history []model.SwapRequest) float64 {
	return RecomputeFromHistory(userID, history).Rating
}

// RecomputeFromHistory 由完成历史重建完整信誉快照
func RecomputeFromHistory(userID string, history []model.SwapRequest) model.Reputation {
	var rep model.Reputation
	for i := range history {
		swap := &history[i]
		if swap.Status != model.SwapStatusCompleted {
			continue
		}
		p := swap.ParticipantOf(userID)
		if p == model.NotParticipant {
			continue
		}
		if r := AttributedRating(swap, p); r != nil {
			rep.RatingSum += *r
			rep.RatingCount++
		}
		if swap.BothRated() {
			rep.SwapCount++
		}
	}
	rep.Rating = averageOf(rep.RatingSum, rep.RatingCount)
	return rep
}

func averageOf(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
