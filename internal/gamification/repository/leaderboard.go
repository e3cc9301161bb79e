package repository

import (
	"context"
	"fmt"

	gerrors "github.com/park285/eco-report-bots/gamification-go/internal/gamification/errors"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

const defaultLeaderboardLimit = 10

// metricColumn: 리더보드 지표를 정렬 컬럼으로 변환한다.
func metricColumn(metric model.Metric) (string, error) {
	switch metric {
	case model.MetricPoints:
		return "total_points", nil
	case model.MetricReports:
		return "total_reports", nil
	case model.MetricStreak:
		return "longest_streak", nil
	case model.MetricLevel:
		return "level", nil
	default:
		return "", gerrors.InvalidMetricError{Metric: string(metric)}
	}
}

// TopUsers: 지표 내림차순 상위 사용자 목록을 조회한다.
// 동점은 user_id 오름차순으로 정렬해 결과가 항상 결정적이다.
func (r *Repository) TopUsers(ctx context.Context, metric model.Metric, limit int) ([]model.LeaderboardEntry, error) {
	column, err := metricColumn(metric)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	var entities []UserGameStats
	if err := r.db.WithContext(ctx).
		Order(column + " DESC, user_id ASC").
		Limit(limit).
		Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(entities))
	for i, entity := range entities {
		entries = append(entries, model.LeaderboardEntry{
			Rank:          i + 1,
			UserID:        entity.UserID,
			DisplayName:   entity.DisplayName,
			TotalPoints:   entity.TotalPoints,
			TotalReports:  entity.TotalReports,
			LongestStreak: entity.LongestStreak,
			Level:         entity.Level,
		})
	}
	return entries, nil
}

// globalStatsAggregate: DB 집계 결과를 담는 구조체.
type globalStatsAggregate struct {
	TotalUsers    int64   `gorm:"column:total_users"`
	TotalPoints   int64   `gorm:"column:total_points"`
	TotalReports  int64   `gorm:"column:total_reports"`
	TotalResolved int64   `gorm:"column:total_resolved"`
	AvgLevel      float64 `gorm:"column:avg_level"`
	AvgStreak     float64 `gorm:"column:avg_streak"`
}

// GlobalStats: 전체 사용자 통계를 DB 수준에서 집계한다 (Over-fetching 방지).
func (r *Repository) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	var agg globalStatsAggregate
	if err := r.db.WithContext(ctx).
		Model(&UserGameStats{}).
		Select("count(*) as total_users, " +
			"coalesce(sum(total_points), 0) as total_points, " +
			"coalesce(sum(total_reports), 0) as total_reports, " +
			"coalesce(sum(resolved_reports), 0) as total_resolved, " +
			"coalesce(avg(level), 0) as avg_level, " +
			"coalesce(avg(longest_streak), 0) as avg_streak").
		Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("aggregate user_game_stats: %w", err)
	}

	return &model.GlobalStats{
		TotalUsers:    agg.TotalUsers,
		TotalPoints:   agg.TotalPoints,
		TotalReports:  agg.TotalReports,
		TotalResolved: agg.TotalResolved,
		AvgLevel:      agg.AvgLevel,
		AvgStreak:     agg.AvgStreak,
	}, nil
}
