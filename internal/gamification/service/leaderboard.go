package service

import (
	"context"
	"fmt"

	gerrors "github.com/park285/eco-report-bots/gamification-go/internal/gamification/errors"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// GetLeaderboard: 지표 기준 상위 사용자 목록을 조회한다.
// 짧은 TTL의 Valkey 캐시를 먼저 보고, 미스면 DB에서 읽어 채운다.
// 캐시 오류는 조회 실패로 번지지 않는다 (DB 폴백).
func (e *Engine) GetLeaderboard(ctx context.Context, metric model.Metric, limit int) ([]model.LeaderboardEntry, error) {
	if !metric.IsValid() {
		return nil, gerrors.InvalidMetricError{Metric: string(metric)}
	}

	if e.cache != nil {
		cached, hit, err := e.cache.Get(ctx, metric, limit)
		if err != nil {
			e.logger.WarnContext(ctx, "leaderboard_cache_get_failed", "metric", string(metric), "err", err)
		} else if hit {
			return cached, nil
		}
	}

	entries, err := e.store.TopUsers(ctx, metric, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard metric=%s: %w", metric, err)
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, metric, limit, entries); err != nil {
			e.logger.WarnContext(ctx, "leaderboard_cache_set_failed", "metric", string(metric), "err", err)
		}
	}
	return entries, nil
}
