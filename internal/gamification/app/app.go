package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/park285/eco-report-bots/gamification-go/internal/common/bootstrap"
	"github.com/park285/eco-report-bots/gamification-go/internal/common/dbutil"
	"github.com/park285/eco-report-bots/gamification-go/internal/common/di"
	"github.com/park285/eco-report-bots/gamification-go/internal/common/httpserver"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/catalog"
	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/events"
	ghttpapi "github.com/park285/eco-report-bots/gamification-go/internal/gamification/httpapi"
	gredis "github.com/park285/eco-report-bots/gamification-go/internal/gamification/redis"
	grepo "github.com/park285/eco-report-bots/gamification-go/internal/gamification/repository"
	gsvc "github.com/park285/eco-report-bots/gamification-go/internal/gamification/service"
)

func newGamificationDataRedis(
	ctx context.Context,
	cfg *gconfig.Config,
	logger *slog.Logger,
) (di.DataValkeyClient, func(), error) {
	client, closeFn, err := bootstrap.NewAndPingDataValkeyClient(ctx, cfg.Redis, logger)
	if err != nil {
		return di.DataValkeyClient{}, nil, fmt.Errorf("init valkey failed: %w", err)
	}
	return client, closeFn, nil
}

func newGamificationMQValkey(
	ctx context.Context,
	cfg *gconfig.Config,
	logger *slog.Logger,
) (di.MQValkeyClient, func(), error) {
	client, closeFn, err := bootstrap.NewAndPingMQValkeyClient(ctx, cfg.Valkey, logger)
	if err != nil {
		return di.MQValkeyClient{}, nil, fmt.Errorf("init valkey mq failed: %w", err)
	}
	return client, closeFn, nil
}

func newGamificationDB(
	ctx context.Context,
	cfg *gconfig.Config,
	logger *slog.Logger,
) (*gorm.DB, func(), error) {
	// 스키마 마이그레이션 완료 전에 앱이 뜨는 경쟁을 재시도로 흡수한다.
	db, sqlDB, err := dbutil.OpenWithRetry(ctx, func(ctx context.Context) (*gorm.DB, *sql.DB, error) {
		return openPostgres(ctx, cfg.Postgres)
	}, dbutil.DefaultRetryConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres failed: %w", err)
	}

	closeFn := func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("postgres_close_failed", "err", closeErr)
		}
	}
	return db, closeFn, nil
}

func newGamificationRepository(ctx context.Context, db *gorm.DB) (*grepo.Repository, error) {
	repo := grepo.New(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	return repo, nil
}

// newGamificationEngine: 업적 카탈로그를 로드하고 설정 플래그에 따라
// 사용자 락 / 리더보드 캐시 / 이벤트 발행을 엔진에 연결한다.
func newGamificationEngine(
	cfg *gconfig.Config,
	repo *grepo.Repository,
	dataValkey di.DataValkeyClient,
	mqValkey di.MQValkeyClient,
	logger *slog.Logger,
) (*gsvc.Engine, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load achievement catalog failed: %w", err)
	}

	opts := gsvc.Options{}
	if cfg.Engine.UserLockEnabled {
		opts.Locker = gredis.NewUserLockManager(dataValkey.Client, logger)
	}
	if cfg.Engine.LeaderboardCacheEnable {
		opts.Cache = gredis.NewLeaderboardCache(dataValkey.Client, logger)
	}
	opts.Events = events.NewPublisher(mqValkey.Client, logger, cfg.Valkey.ReplyStreamKey, cfg.Valkey.StreamMaxLen)

	return gsvc.NewEngine(repo, cat, logger, opts), nil
}

func newGamificationHTTPMux(logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	ghttpapi.Register(mux, logger)
	return mux
}

func newGamificationHTTPServer(cfg *gconfig.Config, mux *http.ServeMux) *http.Server {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return httpserver.NewServer(addr, mux, httpserver.ServerOptions{
		UseH2C:            true,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
	})
}

func newGamificationServerApp(
	logger *slog.Logger,
	server *http.Server,
	tasks []bootstrap.BackgroundTask,
) *bootstrap.ServerApp {
	return bootstrap.NewServerApp(
		"gamification",
		logger,
		server,
		10*time.Second,
		tasks...,
	)
}

func openPostgres(ctx context.Context, cfg gconfig.PostgresConfig) (*gorm.DB, *sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	if cfg.SocketPath != "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.SocketPath,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("gorm open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, nil, fmt.Errorf("db ping failed: %w", err)
	}

	return db, sqlDB, nil
}
