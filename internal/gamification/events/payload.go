// Package events 는 게이미피케이션 엔진의 Valkey 스트림 입출력을 담당한다.
// 인바운드: 신고/소셜/팀 워크플로우가 발행하는 트리거 메시지 소비.
// 아웃바운드: 레벨업/업적 해금 진행 이벤트 발행 (외부 알림 서비스가 구독).
package events

// 스트림 메시지 필드 키 상수.
const (
	FieldType          = "type"
	FieldUserID        = "user_id"
	FieldDisplayName   = "display_name"
	FieldAction        = "action"
	FieldAmount        = "amount"
	FieldEventDate     = "event_date"
	FieldCategory      = "category"
	FieldAchievementID = "achievement_id"
	FieldLevel         = "level"
	FieldBonus         = "bonus"
	FieldPoints        = "points"
	FieldStreak        = "streak"
	FieldSummary       = "summary"
)

// 인바운드 트리거 타입.
const (
	TriggerAwardPoints       = "award_points"
	TriggerUpdateStreak      = "update_streak"
	TriggerCheckAchievements = "check_achievements"
	TriggerUnlockAchievement = "unlock_achievement"
	TriggerCreateUser        = "create_user"
)

// 아웃바운드 이벤트 타입.
const (
	EventLevelUp             = "level_up"
	EventAchievementUnlocked = "achievement_unlocked"
	EventStreakBonus         = "streak_bonus"
)

// EventDateLayout: 트리거의 event_date 필드 형식 (날짜 단위).
const EventDateLayout = "2006-01-02"
