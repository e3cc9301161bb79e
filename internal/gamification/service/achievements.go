package service

import (
	"context"
	"fmt"
	"time"

	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/catalog"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// applyUnlock: 업적 해금을 스냅샷에 적용한다.
// 기록을 추가하고 업적 포인트를 totalPoints와 experience 양쪽에 더한다.
// (경험치 가산은 레벨 엔진으로 이어질 수 있다.)
func (e *Engine) applyUnlock(stats *model.UserGameStats, def catalog.Definition, now time.Time) model.AchievementRecord {
	record := model.AchievementRecord{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Icon:        def.Icon,
		Points:      def.Points,
		UnlockedAt:  now,
	}
	stats.Achievements = append(stats.Achievements, record)
	stats.TotalPoints += def.Points
	stats.Experience += def.Points
	return record
}

// CheckAchievements: 통계 기반 업적을 평가하고 새로 충족된 것들을 해금한다.
// category가 nil이면 전체 카테고리를 평가한다. 이미 보유한 업적은 건너뛰고,
// 해금 포인트로 레벨업이 연쇄되면 레벨 업적까지 한 번의 저장으로 정산한다.
// 새로 해금된 정의 목록을 반환한다 (연쇄 해금 포함).
func (e *Engine) CheckAchievements(ctx context.Context, userID string, category *model.Category) ([]catalog.Definition, error) {
	var newly []catalog.Definition
	var levelUp model.LevelUpResult
	var unlockedRecords []model.AchievementRecord
	var committed *model.UserGameStats

	err := e.withStats(ctx, userID, func(stats *model.UserGameStats) (bool, error) {
		newly = nil
		levelUp = model.LevelUpResult{}
		unlockedRecords = nil

		defs := e.catalog.All()
		if category != nil {
			defs = e.catalog.ByCategory(*category)
		}

		now := e.now()
		var unlocked []model.AchievementRecord
		for _, def := range defs {
			if stats.HasAchievement(def.ID) || !def.Satisfied(stats) {
				continue
			}
			unlocked = append(unlocked, e.applyUnlock(stats, def, now))
			newly = append(newly, def)
		}
		if len(unlocked) == 0 {
			return false, nil
		}

		settled, levelUnlocked := e.settleLevels(stats, now)
		for _, record := range levelUnlocked {
			if def, ok := e.catalog.Get(record.ID); ok {
				newly = append(newly, def)
			}
		}
		unlocked = append(unlocked, levelUnlocked...)

		levelUp = settled
		unlockedRecords = unlocked
		committed = stats
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("check achievements user=%s: %w", userID, err)
	}

	if len(newly) > 0 {
		e.logger.InfoContext(ctx, "achievements_unlocked", "user_id", userID, "count", len(newly))
	}
	e.publishProgress(ctx, userID, committed, levelUp, unlockedRecords)
	return newly, nil
}

// UnlockAchievement: 팀/챌린지처럼 통계로 판정하지 않는 업적을 외부 트리거로
// 해금한다. 이미 보유 중이면 false를 반환한다 (no-op). 알 수 없는 ID는 오류다.
func (e *Engine) UnlockAchievement(ctx context.Context, userID string, achievementID string) (bool, error) {
	def, ok := e.catalog.Get(achievementID)
	if !ok {
		return false, fmt.Errorf("unknown achievement: %s", achievementID)
	}

	var levelUp model.LevelUpResult
	var unlocked []model.AchievementRecord
	var committed *model.UserGameStats
	alreadyHeld := false

	err := e.withStats(ctx, userID, func(stats *model.UserGameStats) (bool, error) {
		levelUp = model.LevelUpResult{}
		unlocked = nil
		alreadyHeld = false

		if stats.HasAchievement(def.ID) {
			alreadyHeld = true
			return false, nil
		}

		now := e.now()
		unlocked = append(unlocked, e.applyUnlock(stats, def, now))
		settled, levelUnlocked := e.settleLevels(stats, now)
		levelUp = settled
		unlocked = append(unlocked, levelUnlocked...)
		committed = stats
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("unlock achievement user=%s id=%s: %w", userID, achievementID, err)
	}
	if alreadyHeld {
		return false, nil
	}

	e.logger.InfoContext(ctx, "achievement_unlocked_external",
		"user_id", userID, "achievement_id", achievementID)
	e.publishProgress(ctx, userID, committed, levelUp, unlocked)
	return true, nil
}
