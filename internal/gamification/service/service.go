// Package service 는 게이미피케이션 진행 엔진을 구현한다.
// 포인트 원장, 레벨 엔진, 스트릭 추적, 업적 평가, 진행도/리더보드 조회를
// 사용자 단위 락 + 버전 CAS 재시도 위에서 수행한다.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/catalog"
	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
	gerrors "github.com/park285/eco-report-bots/gamification-go/internal/gamification/errors"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// Store: 사용자 통계 영속 계약. repository.Repository가 구현한다.
type Store interface {
	Get(ctx context.Context, userID string) (*model.UserGameStats, error)
	Create(ctx context.Context, userID string, displayName string) error
	Save(ctx context.Context, stats *model.UserGameStats) error
	TopUsers(ctx context.Context, metric model.Metric, limit int) ([]model.LeaderboardEntry, error)
	GlobalStats(ctx context.Context) (*model.GlobalStats, error)
}

// Locker: 사용자 단위 직렬화 계약. redis.UserLockManager가 구현한다.
type Locker interface {
	WithUserLock(ctx context.Context, userID string, block func(ctx context.Context) error) error
}

// LeaderboardCache: 리더보드 단기 캐시 계약. redis.LeaderboardCache가 구현한다.
type LeaderboardCache interface {
	Get(ctx context.Context, metric model.Metric, limit int) ([]model.LeaderboardEntry, bool, error)
	Set(ctx context.Context, metric model.Metric, limit int, entries []model.LeaderboardEntry) error
}

// EventSink: 진행 이벤트 발행 계약. events.Publisher가 구현한다.
type EventSink interface {
	PublishLevelUp(ctx context.Context, userID string, newLevel int, bonus int, summary string) error
	PublishAchievementUnlocked(ctx context.Context, userID string, achievementID string, points int) error
	PublishStreakBonus(ctx context.Context, userID string, streak int, bonus int) error
}

// Options: 엔진의 선택적 협력자 묶음.
// 락/캐시/이벤트 싱크가 없어도 엔진은 동작한다 (CAS 재시도만으로 직렬화).
type Options struct {
	Locker Locker
	Cache  LeaderboardCache
	Events EventSink

	// Now: 시각 주입 (테스트용). nil이면 time.Now.
	Now func() time.Time
}

// Engine: 게이미피케이션 진행 엔진.
type Engine struct {
	store   Store
	catalog *catalog.Catalog
	logger  *slog.Logger

	locker Locker
	cache  LeaderboardCache
	events EventSink
	now    func() time.Time
}

// NewEngine: 새로운 Engine 인스턴스를 생성합니다.
func NewEngine(store Store, cat *catalog.Catalog, logger *slog.Logger, opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:   store,
		catalog: cat,
		logger:  logger,
		locker:  opts.Locker,
		cache:   opts.Cache,
		events:  opts.Events,
		now:     now,
	}
}

// EnsureUser: 기본값으로 초기화된 사용자 통계 레코드를 준비한다.
// 이미 존재하면 아무것도 하지 않는다.
func (e *Engine) EnsureUser(ctx context.Context, userID string, displayName string) error {
	if err := e.store.Create(ctx, userID, displayName); err != nil {
		return fmt.Errorf("ensure user stats: %w", err)
	}
	return nil
}

// withStats: 사용자 통계를 read-modify-write로 변형한다.
// 락 보유 중 로드 → apply → 버전 CAS 저장을 수행하고, 충돌 시 백오프 후
// 최신 스냅샷으로 다시 시도한다. apply가 (false, nil)을 반환하면 저장을 생략한다.
// apply는 재시도마다 새 스냅샷으로 다시 호출되므로 멱등해야 한다.
func (e *Engine) withStats(ctx context.Context, userID string, apply func(stats *model.UserGameStats) (bool, error)) error {
	run := func(ctx context.Context) error {
		for attempt := 1; attempt <= gconfig.SaveMaxAttempts; attempt++ {
			stats, err := e.store.Get(ctx, userID)
			if err != nil {
				return err
			}

			changed, err := apply(stats)
			if err != nil {
				return err
			}
			if !changed {
				return nil
			}

			err = e.store.Save(ctx, stats)
			if err == nil {
				return nil
			}

			var conflict gerrors.ConflictError
			if !errors.As(err, &conflict) {
				return err
			}
			e.logger.DebugContext(ctx, "stats_save_conflict", "user_id", userID, "attempt", attempt)
			if attempt < gconfig.SaveMaxAttempts && !sleepBackoff(ctx, attempt) {
				return ctx.Err()
			}
		}
		return gerrors.ConflictError{UserID: userID, Attempts: gconfig.SaveMaxAttempts}
	}

	if e.locker != nil {
		return e.locker.WithUserLock(ctx, userID, run)
	}
	return run(ctx)
}

// sleepBackoff: 시도 횟수에 비례한 백오프 대기. context 취소 시 false.
func sleepBackoff(ctx context.Context, attempt int) bool {
	delay := time.Duration(attempt*gconfig.SaveRetryBackoffMS) * time.Millisecond
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// publishProgress: 커밋 완료 후 레벨업/업적 해금 이벤트를 발행한다.
// 레벨업 이벤트에는 커밋된 스냅샷 기준의 한 줄 진행 요약을 함께 싣는다.
// 발행 실패는 진행 상태에 영향을 주지 않으므로 경고 로그로만 남긴다.
func (e *Engine) publishProgress(ctx context.Context, userID string, stats *model.UserGameStats, levelUp model.LevelUpResult, unlocked []model.AchievementRecord) {
	if e.events == nil {
		return
	}
	if levelUp.LeveledUp {
		summary := ""
		if stats != nil {
			summary = FormatProgressSummary(stats.DisplayName, e.progressReport(stats))
		}
		if err := e.events.PublishLevelUp(ctx, userID, levelUp.NewLevel, levelUp.Bonus, summary); err != nil {
			e.logger.WarnContext(ctx, "publish_level_up_failed", "user_id", userID, "err", err)
		}
	}
	for _, record := range unlocked {
		if err := e.events.PublishAchievementUnlocked(ctx, userID, record.ID, record.Points); err != nil {
			e.logger.WarnContext(ctx, "publish_achievement_failed", "user_id", userID, "achievement_id", record.ID, "err", err)
		}
	}
}
