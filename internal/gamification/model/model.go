// Package model: 게이미피케이션 엔진의 도메인 모델을 정의한다.
// 사용자 통계 스냅샷, 업적 기록, 액션/카테고리/지표 열거형을 포함한다.
package model

import "time"

// Action: 포인트 지급 대상이 되는 액션 열거형.
// 외부 워크플로우가 자유 문자열 대신 닫힌 상수 집합으로 액션을 전달한다.
type Action string

// ActionReportSubmitted 는 포인트 액션 상수 목록이다.
const (
	ActionReportSubmitted     Action = "REPORT_SUBMITTED"
	ActionReportResolved      Action = "REPORT_RESOLVED"
	ActionDailyLogin          Action = "DAILY_LOGIN"
	ActionStreakBonus         Action = "STREAK_BONUS"
	ActionChallengeCompletion Action = "CHALLENGE_COMPLETION"
	ActionTeamContribution    Action = "TEAM_CONTRIBUTION"
	ActionSocialAction        Action = "SOCIAL_ACTION"
)

// Category: 업적 분류 카테고리.
type Category string

// CategoryReports 는 업적 카테고리 상수 목록이다.
const (
	CategoryReports   Category = "reports"
	CategoryStreak    Category = "streak"
	CategoryLevel     Category = "level"
	CategorySocial    Category = "social"
	CategoryTeam      Category = "team"
	CategoryChallenge Category = "challenge"
)

// Metric: 리더보드 정렬 지표.
type Metric string

// MetricPoints 는 리더보드 지표 상수 목록이다.
const (
	MetricPoints  Metric = "points"
	MetricReports Metric = "reports"
	MetricStreak  Metric = "streak"
	MetricLevel   Metric = "level"
)

// IsValid: 지원하는 리더보드 지표인지 확인한다.
func (m Metric) IsValid() bool {
	switch m {
	case MetricPoints, MetricReports, MetricStreak, MetricLevel:
		return true
	default:
		return false
	}
}

// AchievementRecord: 사용자가 해금한 업적 기록.
// ID는 사용자당 유일하며, 한번 기록되면 제거되지 않는다.
type AchievementRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Points      int       `json:"points"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// UserGameStats: 사용자 게이미피케이션 통계 스냅샷.
// 리포지토리에서 값으로 로드되어 엔진 내부에서만 변형되고,
// 커밋 시점에 버전 CAS로 원자적으로 저장된다 (공유 가변 객체 없음).
type UserGameStats struct {
	UserID      string
	DisplayName string

	TotalPoints           int
	Experience            int
	Level                 int
	ExperienceToNextLevel int

	Streak           int
	LongestStreak    int
	LastActivityDate *time.Time // 날짜 단위 (시각 성분은 버려짐)

	// 외부 협력자가 증가시키는 읽기 전용 카운터
	TotalReports    int
	ResolvedReports int
	FollowerCount   int

	Achievements []AchievementRecord

	Version int64
}

// HasAchievement: 해당 ID의 업적을 이미 보유 중인지 확인한다.
func (s *UserGameStats) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// NormalizeDate: 시각 성분을 버리고 값이 표기하는 달력 날짜의 UTC 자정으로 절삭한다.
// 타임존이 다른 값끼리도 달력 날짜가 같으면 같은 인스턴트가 되므로,
// 스트릭 연속/단절 판정은 항상 이 정규화 값으로 수행한다.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsSameDay: 두 시각이 같은 달력 날짜인지 확인한다. (각 값의 표기 기준)
func IsSameDay(a, b time.Time) bool {
	return NormalizeDate(a).Equal(NormalizeDate(b))
}

// IsNextDay: b가 a의 정확히 다음 날짜인지 확인한다.
func IsNextDay(a, b time.Time) bool {
	return NormalizeDate(a).AddDate(0, 0, 1).Equal(NormalizeDate(b))
}

// AwardResult: 포인트 지급 결과.
type AwardResult struct {
	PointsAwarded int
	NewTotal      int
	LevelUp       LevelUpResult
	Unlocked      []AchievementRecord
}

// LevelUpResult: 레벨업 판정 결과.
// 한 번의 지급으로 여러 임계값을 넘은 경우 최종 레벨과 누적 보너스를 보고하고,
// 통과한 각 레벨은 LevelsCrossed에 순서대로 담긴다.
type LevelUpResult struct {
	LeveledUp     bool
	NewLevel      int
	Bonus         int
	LevelsCrossed []int
}

// StreakResult: 스트릭 갱신 결과.
type StreakResult struct {
	Streak        int
	LongestStreak int
	BonusAwarded  int
	LevelUp       LevelUpResult
	Unlocked      []AchievementRecord
}

// ProgressReport: 사용자 진행도 프로젝션 (읽기 전용).
type ProgressReport struct {
	Level                int     `json:"level"`
	Experience           int     `json:"experience"`
	ExperienceToNext     int     `json:"experienceToNext"`
	ProgressPercentage   float64 `json:"progressPercentage"`
	TotalPoints          int     `json:"totalPoints"`
	TotalReports         int     `json:"totalReports"`
	ResolvedReports      int     `json:"resolvedReports"`
	Streak               int     `json:"streak"`
	LongestStreak        int     `json:"longestStreak"`
	AchievementsUnlocked int     `json:"achievementsUnlocked"`
	AchievementsTotal    int     `json:"achievementsTotal"`
}

// LeaderboardEntry: 리더보드 순위 항목.
// 동점일 때는 사용자 ID 오름차순으로 순위를 부여한다 (결정적 타이브레이크).
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	TotalPoints   int    `json:"totalPoints"`
	TotalReports  int    `json:"totalReports"`
	LongestStreak int    `json:"longestStreak"`
	Level         int    `json:"level"`
}

// GlobalStats: 전체 사용자 집계 통계.
type GlobalStats struct {
	TotalUsers    int64   `json:"totalUsers"`
	TotalPoints   int64   `json:"totalPoints"`
	TotalReports  int64   `json:"totalReports"`
	TotalResolved int64   `json:"totalResolved"`
	AvgLevel      float64 `json:"avgLevel"`
	AvgStreak     float64 `json:"avgStreak"`
}
