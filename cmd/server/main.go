package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chatcart/backend/config"
	"github.com/chatcart/backend/internal/app"
	httpDelivery "github.com/chatcart/backend/internal/delivery/http"
	"github.com/chatcart/backend/internal/logger"
	"github.com/chatcart/backend/internal/server"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting ChatCart backend",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	if err := server.Run(ctx, addr, application.Router, cfg.Server.RequestTimeout, log); err != nil {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
