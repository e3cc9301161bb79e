package service

import (
	"context"
	"fmt"

	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// AwardPoints: 액션에 대한 포인트를 지급하고 레벨업/업적 연쇄를 정산한다.
// amount > 0이면 명시 지급량(관리자 지급 경로)이 액션 테이블보다 우선한다.
// 최종 지급량이 0 이하이면 (미등록 액션 포함) 아무것도 하지 않는다.
func (e *Engine) AwardPoints(ctx context.Context, userID string, action model.Action, amount int) (*model.AwardResult, error) {
	if amount <= 0 {
		amount = gconfig.ActionPoints(action)
	}
	if amount <= 0 {
		e.logger.DebugContext(ctx, "points_noop", "user_id", userID, "action", string(action))
		return &model.AwardResult{}, nil
	}

	var result *model.AwardResult
	var committed *model.UserGameStats
	err := e.withStats(ctx, userID, func(stats *model.UserGameStats) (bool, error) {
		stats.TotalPoints += amount
		stats.Experience += amount

		levelUp, unlocked := e.settleLevels(stats, e.now())
		committed = stats
		result = &model.AwardResult{
			PointsAwarded: amount,
			NewTotal:      stats.TotalPoints,
			LevelUp:       levelUp,
			Unlocked:      unlocked,
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("award points user=%s action=%s: %w", userID, action, err)
	}

	e.logger.InfoContext(ctx, "points_awarded",
		"user_id", userID,
		"action", string(action),
		"amount", amount,
		"total", result.NewTotal,
		"level_up", result.LevelUp.LeveledUp,
	)
	e.publishProgress(ctx, userID, committed, result.LevelUp, result.Unlocked)
	return result, nil
}
