package repository

import "time"

// UserGameStats: 사용자 게이미피케이션 통계 레코드.
// 이 서브시스템이 단독 소유하며, totalReports/resolvedReports/followerCount는
// 외부 협력자(신고/커뮤니티 서비스)가 증가시키는 읽기 전용 입력이다.
// version 컬럼은 낙관적 동시성 제어(CAS)에 사용된다.
type UserGameStats struct {
	UserID      string `gorm:"column:user_id;primaryKey"`
	DisplayName string `gorm:"column:display_name;not null;default:''"`

	TotalPoints           int `gorm:"column:total_points;not null;default:0;index"`
	Experience            int `gorm:"column:experience;not null;default:0"`
	Level                 int `gorm:"column:level;not null;default:1;index"`
	ExperienceToNextLevel int `gorm:"column:experience_to_next_level;not null;default:100"`

	Streak           int        `gorm:"column:streak;not null;default:0"`
	LongestStreak    int        `gorm:"column:longest_streak;not null;default:0;index"`
	LastActivityDate *time.Time `gorm:"column:last_activity_date"`

	TotalReports    int `gorm:"column:total_reports;not null;default:0;index"`
	ResolvedReports int `gorm:"column:resolved_reports;not null;default:0"`
	FollowerCount   int `gorm:"column:follower_count;not null;default:0"`

	AchievementsJSON *string `gorm:"column:achievements_json;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
	Version   int64     `gorm:"column:version;not null;default:0"`
}

func (UserGameStats) TableName() string { return "user_game_stats" }
