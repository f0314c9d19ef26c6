package handler

import "skillswap/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Swap   *SwapHandler
	Export *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth, svc.User),
		User:   NewUserHandler(svc.User),
		Swap:   NewSwapHandler(svc.Swap),
		Export: NewExportHandler(svc.Export),
	}
}
