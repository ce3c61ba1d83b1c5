package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newsai-hq/newsai-backend/internal/app"
	"github.com/newsai-hq/newsai-backend/internal/config"
	"github.com/newsai-hq/newsai-backend/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ingester start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("ingester starting", "app", cfg.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingester, err := app.NewIngester(ctx, cfg)
	if err != nil {
		logger.ErrorObj("failed to initialize ingester", "error", err.Error())
		return err
	}

	if err := ingester.Run(ctx); err != nil {
		return fmt.Errorf("ingester run: %w", err)
	}

	return nil
}
