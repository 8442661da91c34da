package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"propertyinsights/config"
	"propertyinsights/utils"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Unable to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
