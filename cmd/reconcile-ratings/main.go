// reconcile-ratings 按完成历史全量重算所有用户的信誉，修正增量聚合产生的漂移
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"skillswap/config"
	"skillswap/internal/repository"
	"skillswap/internal/service"
	"skillswap/pkg/database"
	applogger "skillswap/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	userID := flag.String("user", "", "仅对账指定用户")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rating := service.NewRatingService(repository.NewRepository(db), logger)

	if *userID != "" {
		fixed, err := rating.Reconcile(ctx, *userID)
		if err != nil {
			logger.Fatal("对账失败", zap.String("user_id", *userID), zap.Error(err))
		}
		logger.Info("对账完成", zap.String("user_id", *userID), zap.Bool("fixed", fixed))
		return
	}

	fixed, err := rating.ReconcileAll(ctx)
	if err != nil {
		logger.Fatal("对账失败", zap.Int("fixed", fixed), zap.Error(err))
	}
	logger.Info("对账完成", zap.Int("fixed", fixed))
}
