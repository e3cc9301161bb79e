package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	gerrors "github.com/park285/eco-report-bots/gamification-go/internal/gamification/errors"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repo := New(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return repo
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "user-1", "철수"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stats, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stats.UserID != "user-1" || stats.DisplayName != "철수" {
		t.Errorf("unexpected identity: %+v", stats)
	}
	if stats.Level != 1 || stats.ExperienceToNextLevel != 100 {
		t.Errorf("unexpected defaults: level=%d threshold=%d", stats.Level, stats.ExperienceToNextLevel)
	}
	if stats.Version != 0 {
		t.Errorf("expected version 0, got %d", stats.Version)
	}
}

func TestRepository_CreateDuplicateIsNoop(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "user-1", "철수"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if err := repo.Create(ctx, "user-1", "영희"); err != nil {
		t.Fatalf("duplicate create must be tolerated: %v", err)
	}

	stats, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stats.DisplayName != "철수" {
		t.Errorf("expected original record preserved, got %q", stats.DisplayName)
	}
}

func TestRepository_GetNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "ghost")
	var notFound gerrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got: %v", err)
	}
	if notFound.UserID != "ghost" {
		t.Errorf("expected user id in error, got %q", notFound.UserID)
	}
}

func TestRepository_SaveRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "user-1", "철수"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stats, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	activity := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	stats.TotalPoints = 120
	stats.Experience = 20
	stats.Level = 2
	stats.ExperienceToNextLevel = 120
	stats.Streak = 3
	stats.LongestStreak = 7
	stats.LastActivityDate = &activity
	stats.Achievements = []model.AchievementRecord{
		{ID: "first_report", Name: "첫 신고", Points: 10, UnlockedAt: activity},
	}

	if err := repo.Save(ctx, stats); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if stats.Version != 1 {
		t.Errorf("expected version bump to 1, got %d", stats.Version)
	}

	reloaded, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.TotalPoints != 120 || reloaded.Level != 2 || reloaded.Streak != 3 {
		t.Errorf("unexpected reloaded stats: %+v", reloaded)
	}
	if len(reloaded.Achievements) != 1 || reloaded.Achievements[0].ID != "first_report" {
		t.Errorf("unexpected achievements: %+v", reloaded.Achievements)
	}
	if reloaded.LastActivityDate == nil || !reloaded.LastActivityDate.Equal(activity) {
		t.Errorf("unexpected activity date: %v", reloaded.LastActivityDate)
	}
}

func TestRepository_SaveVersionConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "user-1", "철수"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 두 쓰기가 같은 스냅샷(version 0)에서 출발
	first, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	second, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	first.TotalPoints = 10
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	second.TotalPoints = 99
	err = repo.Save(ctx, second)
	var conflict gerrors.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got: %v", err)
	}

	// 진 쪽 쓰기는 반영되지 않아야 한다.
	reloaded, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.TotalPoints != 10 {
		t.Errorf("expected winner's points 10, got %d", reloaded.TotalPoints)
	}
}

func TestRepository_SaveMissingRecord(t *testing.T) {
	repo := newTestRepo(t)

	stats := &model.UserGameStats{UserID: "ghost", Version: 0}
	err := repo.Save(context.Background(), stats)
	var notFound gerrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got: %v", err)
	}
}

func TestRepository_TopUsersTiebreak(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"user-b", "user-a", "user-c"} {
		if err := repo.Create(ctx, id, id); err != nil {
			t.Fatalf("create %s failed: %v", id, err)
		}
	}
	seed := func(id string, points int) {
		stats, err := repo.Get(ctx, id)
		if err != nil {
			t.Fatalf("get %s failed: %v", id, err)
		}
		stats.TotalPoints = points
		if err := repo.Save(ctx, stats); err != nil {
			t.Fatalf("save %s failed: %v", id, err)
		}
	}
	seed("user-a", 100)
	seed("user-b", 100)
	seed("user-c", 50)

	entries, err := repo.TopUsers(ctx, model.MetricPoints, 10)
	if err != nil {
		t.Fatalf("top users failed: %v", err)
	}
	wantOrder := []string{"user-a", "user-b", "user-c"}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].UserID)
		}
	}
}

func TestRepository_TopUsersInvalidMetric(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.TopUsers(context.Background(), model.Metric("karma"), 10)
	var invalid gerrors.InvalidMetricError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidMetricError, got: %v", err)
	}
}

func TestRepository_GlobalStatsEmpty(t *testing.T) {
	repo := newTestRepo(t)

	stats, err := repo.GlobalStats(context.Background())
	if err != nil {
		t.Fatalf("global stats failed: %v", err)
	}
	if stats.TotalUsers != 0 || stats.TotalPoints != 0 {
		t.Errorf("expected zeroed aggregates, got %+v", stats)
	}
}
