package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/catalog"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

const percentageMultiplier = 100

// GetProgress: 사용자 진행도 프로젝션을 조회한다 (읽기 전용).
// progressPercentage는 min(100, 100 * experience / threshold)이고,
// 임계값이 0이면 100%로 취급한다.
func (e *Engine) GetProgress(ctx context.Context, userID string) (*model.ProgressReport, error) {
	stats, err := e.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.progressReport(stats), nil
}

// progressReport: 통계 스냅샷을 진행도 프로젝션으로 변환한다.
func (e *Engine) progressReport(stats *model.UserGameStats) *model.ProgressReport {
	percentage := float64(percentageMultiplier)
	if stats.ExperienceToNextLevel > 0 {
		percentage = float64(stats.Experience) / float64(stats.ExperienceToNextLevel) * percentageMultiplier
		if percentage > percentageMultiplier {
			percentage = percentageMultiplier
		}
	}

	return &model.ProgressReport{
		Level:                stats.Level,
		Experience:           stats.Experience,
		ExperienceToNext:     stats.ExperienceToNextLevel,
		ProgressPercentage:   percentage,
		TotalPoints:          stats.TotalPoints,
		TotalReports:         stats.TotalReports,
		ResolvedReports:      stats.ResolvedReports,
		Streak:               stats.Streak,
		LongestStreak:        stats.LongestStreak,
		AchievementsUnlocked: len(stats.Achievements),
		AchievementsTotal:    e.catalog.Len(),
	}
}

// GetUserAchievements: 사용자가 해금한 업적 기록을 조회한다.
func (e *Engine) GetUserAchievements(ctx context.Context, userID string) ([]model.AchievementRecord, error) {
	stats, err := e.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.Achievements, nil
}

// GetAllAchievements: 전체 업적 카탈로그를 반환한다.
func (e *Engine) GetAllAchievements() []catalog.Definition {
	return e.catalog.All()
}

// GetGlobalStats: 전체 사용자 집계 통계를 조회한다.
func (e *Engine) GetGlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	stats, err := e.store.GlobalStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("global stats: %w", err)
	}
	return stats, nil
}

// FormatProgressSummary: 진행도를 알림용 한 줄 요약으로 포맷한다.
// 숫자는 한국어 로캘 단위 구분으로 표기한다.
func FormatProgressSummary(displayName string, report *model.ProgressReport) string {
	printer := message.NewPrinter(language.Korean)

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "누군가"
	}

	var b strings.Builder
	b.WriteString(printer.Sprintf("%s님 — Lv.%d", name, report.Level))
	b.WriteString(printer.Sprintf(" | 경험치 %d/%d (%.0f%%)",
		report.Experience, report.ExperienceToNext, report.ProgressPercentage))
	b.WriteString(printer.Sprintf(" | 포인트 %d", report.TotalPoints))
	if report.Streak > 0 {
		b.WriteString(printer.Sprintf(" | 연속 %d일", report.Streak))
	}
	b.WriteString(printer.Sprintf(" | 업적 %d/%d",
		report.AchievementsUnlocked, report.AchievementsTotal))
	return b.String()
}
