package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"restauranthub/internal/app"
	"restauranthub/internal/commons"
	"restauranthub/internal/infrastructure/logger"
)

func main() {
	configPath := os.Getenv("RESTAURANTHUB_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := commons.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("starting restaurant hub", zap.Error(err))
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		zapLogger.Error("restaurant hub stopped with error", zap.Error(err))
		return
	}

	zapLogger.Info("server stopped gracefully")
}
