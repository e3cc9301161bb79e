package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/park285/eco-report-bots/gamification-go/internal/common/bootstrap"
	"github.com/park285/eco-report-bots/gamification-go/internal/common/health"
	gapp "github.com/park285/eco-report-bots/gamification-go/internal/gamification/app"
	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
)

// Version: 빌드 시 ldflags로 주입됨 (예: -ldflags="-X main.Version=1.0.0")
var Version = "dev"

func main() {
	health.Init(Version)

	logger := bootstrap.NewLogger()
	slog.SetDefault(logger)

	finalLogger, err := bootstrap.RunServiceEntrypoint(
		context.Background(),
		logger,
		"gamification.log",
		gconfig.LoadFromEnv,
		func(cfg *gconfig.Config) gconfig.LogConfig { return cfg.Log },
		gapp.Initialize,
	)
	if err != nil {
		logger = finalLogger
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
