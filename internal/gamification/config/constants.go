package config

import "github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"

// 포인트 테이블 상수.
const (
	// PointsReportSubmitted: 신고 제출 시 지급 포인트
	PointsReportSubmitted = 10
	// PointsReportResolved: 신고 해결 시 지급 포인트
	PointsReportResolved = 25
	// PointsDailyLogin: 일일 로그인 지급 포인트
	PointsDailyLogin = 5
	// PointsStreakBonusPerDay: 스트릭 1일당 보너스 포인트
	PointsStreakBonusPerDay = 5
	// PointsChallengeCompletion: 챌린지 완료 지급 포인트
	PointsChallengeCompletion = 100
	// PointsTeamContribution: 팀 기여 지급 포인트
	PointsTeamContribution = 15
	// PointsSocialAction: 소셜 액션(좋아요/공유/댓글) 지급 포인트
	PointsSocialAction = 2
)

// 레벨 진행 상수.
const (
	// LevelThresholdGrowthNumerator / Denominator: 레벨업마다 경험치 임계값 1.2배 증가 (floor)
	LevelThresholdGrowthNumerator   = 12
	LevelThresholdGrowthDenominator = 10
	// LevelUpBonusPerLevel: 레벨업 보너스 = 직전 레벨 * 10
	LevelUpBonusPerLevel = 10
	// InitialExperienceToNextLevel: 신규 사용자의 최초 레벨업 임계값
	InitialExperienceToNextLevel = 100
)

// 동시성 제어 상수.
const (
	// SaveMaxAttempts: 버전 CAS 충돌 시 read-modify-write 최대 재시도 횟수
	SaveMaxAttempts = 3
	// SaveRetryBackoffMS: 재시도 사이 대기 시간(ms), 시도마다 배수 증가
	SaveRetryBackoffMS = 50
	// UserLockTTLSeconds: 사용자별 배타 락 TTL(초)
	UserLockTTLSeconds = 10
	// UserLockWaitMS: 락 획득 재시도 간격(ms)
	UserLockWaitMS = 20
	// UserLockMaxWaitMS: 락 획득 최대 대기 시간(ms)
	UserLockMaxWaitMS = 2000
)

// Redis 키/TTL 상수.
const (
	// KeyPrefix: 게이미피케이션 네임스페이스 키 접두사
	KeyPrefix = "gamify"
	// LeaderboardCacheTTLSeconds: 리더보드 캐시 TTL(초)
	LeaderboardCacheTTLSeconds = 30
)

// 스트림 키 상수.
const (
	// DefaultTriggerStreamKey: 외부 워크플로우가 발행하는 트리거 이벤트 스트림
	DefaultTriggerStreamKey = "gamify:triggers"
	// DefaultEventStreamKey: 레벨업/업적 해금 등 진행 이벤트 발행 스트림
	DefaultEventStreamKey = "gamify:events"
	// DefaultTriggerGroup: 트리거 소비자 그룹 이름
	DefaultTriggerGroup = "gamification-engine"
)

// ActionPoints: 액션 이름 → 기본 지급 포인트 테이블.
// 등록되지 않은 액션은 0을 반환하며, 원장은 이를 no-op으로 처리한다 (오타 액션에 관대한 원장).
func ActionPoints(action model.Action) int {
	switch action {
	case model.ActionReportSubmitted:
		return PointsReportSubmitted
	case model.ActionReportResolved:
		return PointsReportResolved
	case model.ActionDailyLogin:
		return PointsDailyLogin
	case model.ActionStreakBonus:
		return PointsStreakBonusPerDay
	case model.ActionChallengeCompletion:
		return PointsChallengeCompletion
	case model.ActionTeamContribution:
		return PointsTeamContribution
	case model.ActionSocialAction:
		return PointsSocialAction
	default:
		return 0
	}
}
