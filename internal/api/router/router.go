package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillswap/config"
	"skillswap/internal/api/handler"
	"skillswap/internal/api/middleware"
	"skillswap/pkg/jwt"
	"skillswap/pkg/metrics"
	"skillswap/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.HTTPMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.PUT("/me", h.User.UpdateMe)
				users.GET("/:id", h.User.GetUser)
			}

			// 交换请求模块
			swaps := authorized.Group("/swaps")
			{
				swaps.POST("/request",
					middleware.RateLimit(rdb, cfg.Swap.CreateRateLimit, cfg.Swap.CreateRateWindow),
					h.Swap.Create,
				)
				swaps.GET("", h.Swap.List)
				swaps.GET("/export", h.Export.ExportSwaps)
				swaps.GET("/:id", h.Swap.Get)
				swaps.PUT("/:id/accept", h.Swap.Accept)
				swaps.PUT("/:id/reject", h.Swap.Reject)
				swaps.PUT("/:id/cancel", h.Swap.Cancel)
				swaps.PUT("/:id/complete", h.Swap.Complete)
			}
		}
	}

	return r
}
