// Package repository: 사용자 통계 저장소에 대한 GORM 기반 리포지토리.
// 읽기는 스냅샷 변환, 쓰기는 버전 CAS 조건부 UPDATE로 수행한다.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cerrors "github.com/park285/eco-report-bots/gamification-go/internal/common/errors"
	"github.com/park285/eco-report-bots/gamification-go/internal/common/ptr"
	gerrors "github.com/park285/eco-report-bots/gamification-go/internal/gamification/errors"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// Repository: DB 접근을 위한 GORM 기반 리포지토리.
type Repository struct {
	db *gorm.DB
}

// New: 새로운 Repository 인스턴스를 생성한다.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate: 자동으로 DB 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&UserGameStats{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// Get: 사용자 통계 스냅샷을 조회한다. 레코드가 없으면 NotFoundError를 반환한다.
func (r *Repository) Get(ctx context.Context, userID string) (*model.UserGameStats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, gerrors.NotFoundError{}
	}

	var entity UserGameStats
	if err := r.db.WithContext(ctx).First(&entity, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gerrors.NotFoundError{UserID: userID}
		}
		return nil, cerrors.DatabaseError{Operation: "query_user_game_stats", Err: err}
	}

	return toSnapshot(&entity)
}

// Create: 기본값으로 초기화된 사용자 통계 레코드를 생성한다.
// 계정 생성 시 외부 협력자가 호출한다. 이미 존재하면 아무것도 하지 않는다.
func (r *Repository) Create(ctx context.Context, userID string, displayName string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("invalid user id")
	}

	entity := UserGameStats{
		UserID:                userID,
		DisplayName:           strings.TrimSpace(displayName),
		Level:                 1,
		ExperienceToNextLevel: 100,
		Version:               0,
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&entity).Error; err != nil {
		return cerrors.DatabaseError{Operation: "create_user_game_stats", Err: err}
	}
	return nil
}

// Save: 스냅샷을 버전 CAS 조건부 UPDATE로 저장한다.
// 로드 시점 이후 다른 쓰기가 끼어들었으면 ConflictError를 반환하고,
// 레코드가 사라졌으면 NotFoundError를 반환한다.
func (r *Repository) Save(ctx context.Context, stats *model.UserGameStats) error {
	if stats == nil {
		return fmt.Errorf("stats is nil")
	}

	achievementsJSON, err := marshalAchievements(stats.Achievements)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"display_name":             stats.DisplayName,
		"total_points":             stats.TotalPoints,
		"experience":               stats.Experience,
		"level":                    stats.Level,
		"experience_to_next_level": stats.ExperienceToNextLevel,
		"streak":                   stats.Streak,
		"longest_streak":           stats.LongestStreak,
		"last_activity_date":       stats.LastActivityDate,
		"achievements_json":        achievementsJSON,
		"updated_at":               time.Now(),
		"version":                  stats.Version + 1,
	}

	result := r.db.WithContext(ctx).
		Model(&UserGameStats{}).
		Where("user_id = ? AND version = ?", stats.UserID, stats.Version).
		Updates(updates)
	if result.Error != nil {
		return cerrors.DatabaseError{Operation: "save_user_game_stats", Err: result.Error}
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&UserGameStats{}).
			Where("user_id = ?", stats.UserID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check user_game_stats existence: %w", err)
		}
		if count == 0 {
			return gerrors.NotFoundError{UserID: stats.UserID}
		}
		return gerrors.ConflictError{UserID: stats.UserID, Attempts: 1}
	}

	stats.Version++
	return nil
}

// toSnapshot: DB 엔티티를 도메인 스냅샷으로 변환한다.
func toSnapshot(entity *UserGameStats) (*model.UserGameStats, error) {
	achievements, err := unmarshalAchievements(entity.AchievementsJSON)
	if err != nil {
		return nil, err
	}

	// 드라이버가 돌려주는 location에 의존하지 않도록 날짜를 UTC 자정으로 고정한다.
	last := entity.LastActivityDate
	if last != nil {
		normalized := model.NormalizeDate(last.In(time.UTC))
		last = &normalized
	}

	return &model.UserGameStats{
		UserID:                entity.UserID,
		DisplayName:           entity.DisplayName,
		TotalPoints:           entity.TotalPoints,
		Experience:            entity.Experience,
		Level:                 entity.Level,
		ExperienceToNextLevel: entity.ExperienceToNextLevel,
		Streak:                entity.Streak,
		LongestStreak:         entity.LongestStreak,
		LastActivityDate:      last,
		TotalReports:          entity.TotalReports,
		ResolvedReports:       entity.ResolvedReports,
		FollowerCount:         entity.FollowerCount,
		Achievements:          achievements,
		Version:               entity.Version,
	}, nil
}

func marshalAchievements(records []model.AchievementRecord) (*string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal achievements failed: %w", err)
	}
	return ptr.String(string(raw)), nil
}

func unmarshalAchievements(raw *string) ([]model.AchievementRecord, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var out []model.AchievementRecord
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return nil, fmt.Errorf("unmarshal achievements failed: %w", err)
	}
	return out, nil
}
