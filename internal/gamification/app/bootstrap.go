package app

import (
	"context"
	"log/slog"

	"github.com/park285/eco-report-bots/gamification-go/internal/common/bootstrap"
	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/events"
)

// Initialize 는 게이미피케이션 애플리케이션 의존성을 초기화하고 ServerApp을 반환한다.
func Initialize(ctx context.Context, cfg *gconfig.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	if cfg.Telemetry.Enabled {
		// 로그에 trace_id/span_id 상관관계를 추가한다.
		logger = slog.New(bootstrap.NewOTelHandler(logger.Handler()))
		slog.SetDefault(logger)
		logger.Info("telemetry_log_correlation_enabled", "service", cfg.Telemetry.ServiceName)
	}

	dataValkeyClient, cleanupDataValkey, err := newGamificationDataRedis(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	db, cleanupDB, err := newGamificationDB(ctx, cfg, logger)
	if err != nil {
		cleanupDataValkey()
		return nil, nil, err
	}

	repository, err := newGamificationRepository(ctx, db)
	if err != nil {
		cleanupDB()
		cleanupDataValkey()
		return nil, nil, err
	}

	mqValkeyClient, cleanupMQValkey, err := newGamificationMQValkey(ctx, cfg, logger)
	if err != nil {
		cleanupDB()
		cleanupDataValkey()
		return nil, nil, err
	}

	engine, err := newGamificationEngine(cfg, repository, dataValkeyClient, mqValkeyClient, logger)
	if err != nil {
		cleanupMQValkey()
		cleanupDB()
		cleanupDataValkey()
		return nil, nil, err
	}

	var tasks []bootstrap.BackgroundTask
	if cfg.Engine.TriggerConsumerEnable {
		consumer := events.NewTriggerConsumer(mqValkeyClient.Client, logger, engine, events.TriggerConsumerConfig{
			Stream:              cfg.Valkey.StreamKey,
			Group:               cfg.Valkey.ConsumerGroup,
			Name:                cfg.Valkey.ConsumerName,
			BatchSize:           cfg.Valkey.BatchSize,
			Block:               cfg.Valkey.BlockTimeout,
			Concurrency:         cfg.Valkey.Concurrency,
			ResetGroupOnStartup: cfg.Valkey.ResetConsumerGroupOnStartup,
		})
		tasks = append(tasks, bootstrap.BackgroundTask{
			Name:        "trigger_consumer",
			ErrorLogKey: "trigger_consumer_failed",
			Run:         consumer.Run,
		})
	}

	httpMux := newGamificationHTTPMux(logger)
	httpServer := newGamificationHTTPServer(cfg, httpMux)

	serverApp := newGamificationServerApp(logger, httpServer, tasks)

	cleanup := func() {
		cleanupMQValkey()
		cleanupDB()
		cleanupDataValkey()
	}

	return serverApp, cleanup, nil
}
