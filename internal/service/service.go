package service

import (
	"go.uber.org/zap"

	"skillswap/config"
	"skillswap/internal/repository"
	"skillswap/pkg/jwt"
	"skillswap/pkg/mq"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth   AuthService
	User   UserService
	Swap   SwapService
	Rating RatingService
	Export ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	publisher mq.Publisher,
	logger *zap.Logger,
) *Service {
	rating := NewRatingService(repo, logger)
	return &Service{
		Auth:   NewAuthService(repo, jwtMgr, blacklist, logger),
		User:   NewUserService(repo, logger),
		Swap:   NewSwapService(cfg, repo, rating, publisher, logger),
		Rating: rating,
		Export: NewExportService(repo, logger),
	}
}
