// Package redis 는 게이미피케이션 엔진의 Redis/Valkey 키 생성 함수들을 정의한다.
package redis

import (
	"fmt"

	"github.com/park285/eco-report-bots/gamification-go/internal/common/valkeyx"
	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
)

// userLockKey 는 사용자별 배타 락 키를 생성한다.
// 형식: gamify:lock:user:{userID}
func userLockKey(userID string) string {
	return valkeyx.BuildKey2(gconfig.KeyPrefix+":lock", "user", userID)
}

// leaderboardKey 는 리더보드 캐시 키를 생성한다.
// 형식: gamify:leaderboard:{metric}:{limit}
func leaderboardKey(metric string, limit int) string {
	return valkeyx.BuildKey2(gconfig.KeyPrefix+":leaderboard", metric, fmt.Sprintf("%d", limit))
}
