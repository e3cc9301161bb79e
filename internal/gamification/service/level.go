package service

import (
	"time"

	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// settleLevels: 경험치가 임계값에 도달해 있는 동안 레벨업을 반복 적용한다.
// 레벨업마다 직전 레벨 * 10 보너스를 totalPoints에만 더하고 (경험치 제외),
// 임계값은 floor(1.2배)로 증가한다. 새 레벨이 레벨 카테고리 업적의 경계값과
// 일치하면 즉시 해금하는데, 업적 포인트가 경험치에도 들어가므로 추가
// 레벨업이 연쇄될 수 있다. 루프 종료 시 0 ≤ experience < threshold가 보장된다.
func (e *Engine) settleLevels(stats *model.UserGameStats, now time.Time) (model.LevelUpResult, []model.AchievementRecord) {
	var result model.LevelUpResult
	var unlocked []model.AchievementRecord

	for stats.ExperienceToNextLevel > 0 && stats.Experience >= stats.ExperienceToNextLevel {
		previousLevel := stats.Level

		stats.Experience -= stats.ExperienceToNextLevel
		stats.Level++
		stats.ExperienceToNextLevel = stats.ExperienceToNextLevel *
			gconfig.LevelThresholdGrowthNumerator / gconfig.LevelThresholdGrowthDenominator

		bonus := previousLevel * gconfig.LevelUpBonusPerLevel
		stats.TotalPoints += bonus

		result.LeveledUp = true
		result.NewLevel = stats.Level
		result.Bonus += bonus
		result.LevelsCrossed = append(result.LevelsCrossed, stats.Level)

		for _, def := range e.catalog.ByCategory(model.CategoryLevel) {
			if stats.HasAchievement(def.ID) || !def.Satisfied(stats) {
				continue
			}
			unlocked = append(unlocked, e.applyUnlock(stats, def, now))
		}
	}

	return result, unlocked
}
