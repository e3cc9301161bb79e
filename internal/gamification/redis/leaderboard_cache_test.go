package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

func newTestLeaderboardCache(t *testing.T) (*LeaderboardCache, valkey.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		mr.Close()
		t.Fatalf("valkey client create failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLeaderboardCache(client, logger), client, mr
}

func TestLeaderboardCache_SetAndGet(t *testing.T) {
	cache, client, mr := newTestLeaderboardCache(t)
	defer client.Close()
	defer mr.Close()

	ctx := context.Background()
	entries := []model.LeaderboardEntry{
		{Rank: 1, UserID: "user-1", DisplayName: "환경지킴이", TotalPoints: 500, Level: 4},
		{Rank: 2, UserID: "user-2", DisplayName: "초록손", TotalPoints: 300, Level: 3},
	}

	if err := cache.Set(ctx, model.MetricPoints, 10, entries); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, hit, err := cache.Get(ctx, model.MetricPoints, 10)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].UserID != "user-1" || got[0].Rank != 1 {
		t.Errorf("unexpected first entry: %+v", got[0])
	}
	if got[1].DisplayName != "초록손" {
		t.Errorf("unexpected second entry: %+v", got[1])
	}
}

func TestLeaderboardCache_MissOnUnknownKey(t *testing.T) {
	cache, client, mr := newTestLeaderboardCache(t)
	defer client.Close()
	defer mr.Close()

	got, hit, err := cache.Get(context.Background(), model.MetricStreak, 5)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if hit {
		t.Fatal("expected cache miss")
	}
	if got != nil {
		t.Fatalf("expected nil entries on miss, got %v", got)
	}
}

func TestLeaderboardCache_KeysAreScopedByMetricAndLimit(t *testing.T) {
	cache, client, mr := newTestLeaderboardCache(t)
	defer client.Close()
	defer mr.Close()

	ctx := context.Background()
	entries := []model.LeaderboardEntry{{Rank: 1, UserID: "user-1"}}

	if err := cache.Set(ctx, model.MetricPoints, 10, entries); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// 같은 지표라도 limit이 다르면 별개 캐시다.
	if _, hit, err := cache.Get(ctx, model.MetricPoints, 5); err != nil || hit {
		t.Fatalf("expected miss for different limit (hit=%v err=%v)", hit, err)
	}
	if _, hit, err := cache.Get(ctx, model.MetricLevel, 10); err != nil || hit {
		t.Fatalf("expected miss for different metric (hit=%v err=%v)", hit, err)
	}
}

func TestLeaderboardCache_CorruptEntryIsMiss(t *testing.T) {
	cache, client, mr := newTestLeaderboardCache(t)
	defer client.Close()
	defer mr.Close()

	key := leaderboardKey(string(model.MetricPoints), 10)
	if err := mr.Set(key, "{not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, hit, err := cache.Get(context.Background(), model.MetricPoints, 10)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if hit {
		t.Fatal("expected corrupt entry to be treated as miss")
	}
}

func TestLeaderboardCache_SetsTTL(t *testing.T) {
	cache, client, mr := newTestLeaderboardCache(t)
	defer client.Close()
	defer mr.Close()

	if err := cache.Set(context.Background(), model.MetricPoints, 10, nil); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	key := leaderboardKey(string(model.MetricPoints), 10)
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("expected positive TTL, got %v", ttl)
	}
}
