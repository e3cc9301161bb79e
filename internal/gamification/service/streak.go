package service

import (
	"context"
	"fmt"
	"time"

	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// UpdateStreak: 일 단위 연속 활동 스트릭을 갱신한다.
// 같은 날짜의 중복 호출은 완전한 no-op이고 (멱등), 정확히 하루 뒤면 +1,
// 그 외(첫 활동, 이틀 이상 공백)는 1로 리셋한다. 갱신 후 스트릭이 1보다
// 크면 streak * 5 보너스를 포인트와 경험치에 지급하고, 스트릭 카테고리
// 업적을 평가한다.
func (e *Engine) UpdateStreak(ctx context.Context, userID string, eventDate time.Time) (*model.StreakResult, error) {
	var result *model.StreakResult
	var committed *model.UserGameStats
	err := e.withStats(ctx, userID, func(stats *model.UserGameStats) (bool, error) {
		last := stats.LastActivityDate

		if last != nil && model.IsSameDay(*last, eventDate) {
			result = &model.StreakResult{
				Streak:        stats.Streak,
				LongestStreak: stats.LongestStreak,
			}
			return false, nil
		}

		switch {
		case last != nil && model.IsNextDay(*last, eventDate):
			stats.Streak++
		default:
			stats.Streak = 1
		}

		normalized := model.NormalizeDate(eventDate)
		stats.LastActivityDate = &normalized
		if stats.Streak > stats.LongestStreak {
			stats.LongestStreak = stats.Streak
		}

		bonus := 0
		if stats.Streak > 1 {
			bonus = stats.Streak * gconfig.PointsStreakBonusPerDay
			stats.TotalPoints += bonus
			stats.Experience += bonus
		}

		now := e.now()
		var unlocked []model.AchievementRecord
		for _, def := range e.catalog.ByCategory(model.CategoryStreak) {
			if stats.HasAchievement(def.ID) || !def.Satisfied(stats) {
				continue
			}
			unlocked = append(unlocked, e.applyUnlock(stats, def, now))
		}

		levelUp, levelUnlocked := e.settleLevels(stats, now)
		unlocked = append(unlocked, levelUnlocked...)

		committed = stats
		result = &model.StreakResult{
			Streak:        stats.Streak,
			LongestStreak: stats.LongestStreak,
			BonusAwarded:  bonus,
			LevelUp:       levelUp,
			Unlocked:      unlocked,
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update streak user=%s: %w", userID, err)
	}

	if result.BonusAwarded > 0 {
		e.logger.InfoContext(ctx, "streak_bonus_awarded",
			"user_id", userID, "streak", result.Streak, "bonus", result.BonusAwarded)
		if e.events != nil {
			if err := e.events.PublishStreakBonus(ctx, userID, result.Streak, result.BonusAwarded); err != nil {
				e.logger.WarnContext(ctx, "publish_streak_bonus_failed", "user_id", userID, "err", err)
			}
		}
	}
	e.publishProgress(ctx, userID, committed, result.LevelUp, result.Unlocked)
	return result, nil
}
