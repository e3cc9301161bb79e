package redis

import (
	"context"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/eco-report-bots/gamification-go/internal/common/lockutil"
	"github.com/park285/eco-report-bots/gamification-go/internal/common/valkeyx"
	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// LeaderboardCache: 리더보드 조회 결과의 단기 Valkey 캐시.
// 리더보드는 짧은 TTL 안에서는 낡아도 무방한 읽기 경로라 캐시 미스/오류 시
// 호출자가 DB 조회로 폴백한다.
type LeaderboardCache struct {
	client valkey.Client
	logger *slog.Logger
}

// NewLeaderboardCache: 새로운 LeaderboardCache 인스턴스를 생성합니다.
func NewLeaderboardCache(client valkey.Client, logger *slog.Logger) *LeaderboardCache {
	return &LeaderboardCache{client: client, logger: logger}
}

// Get: 캐시된 리더보드를 조회한다. 미스면 (nil, false, nil)을 반환한다.
func (c *LeaderboardCache) Get(ctx context.Context, metric model.Metric, limit int) ([]model.LeaderboardEntry, bool, error) {
	key := leaderboardKey(string(metric), limit)
	cmd := c.client.B().Get().Key(key).Build()
	raw, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkeyx.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, valkeyx.WrapRedisError("leaderboard_cache_get", err)
	}

	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// 손상된 캐시 항목은 미스로 취급한다. TTL이 곧 지워준다.
		c.logger.Warn("leaderboard_cache_corrupt", "key", key, "err", err)
		return nil, false, nil
	}
	return entries, true, nil
}

// Set: 리더보드 결과를 TTL과 함께 캐시한다.
func (c *LeaderboardCache) Set(ctx context.Context, metric model.Metric, limit int, entries []model.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal leaderboard failed: %w", err)
	}

	key := leaderboardKey(string(metric), limit)
	ttl := lockutil.TTLDurationFromSeconds(gconfig.LeaderboardCacheTTLSeconds)
	cmd := c.client.B().Set().Key(key).Value(string(raw)).Ex(ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return valkeyx.WrapRedisError("leaderboard_cache_set", err)
	}
	return nil
}
