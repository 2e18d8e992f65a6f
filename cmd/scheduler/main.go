package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"LeafPanel/config"
	"LeafPanel/internal/schedule"
	"LeafPanel/pkg/leaflow"
	"LeafPanel/pkg/logger"
	"LeafPanel/pkg/snowflake"
	"LeafPanel/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	// 与 server 和 worker 区分机器号，避免 ID 冲突
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	leaflow.Init()

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", "leafpanel-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	go schedule.GetCheckinScheduler().Run(ctx)
	go schedule.GetBatchEngine().Run(ctx)

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}
