package events

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"
)

func newTestPublisher(t *testing.T, stream string) (*Publisher, valkey.Client, *miniredis.Miniredis) {
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
	return NewPublisher(client, logger, stream, 0), client, mr
}

func streamFields(t *testing.T, mr *miniredis.Miniredis, stream string) map[string]string {
	t.Helper()

	entries, err := mr.Stream(stream)
	if err != nil {
		t.Fatalf("read stream failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	values := entries[0].Values
	fields := make(map[string]string, len(values)/2)
	for i := 0; i+1 < len(values); i += 2 {
		fields[values[i]] = values[i+1]
	}
	return fields
}

func TestPublisher_PublishLevelUp(t *testing.T) {
	publisher, client, mr := newTestPublisher(t, "gamify:events")
	defer client.Close()
	defer mr.Close()

	if err := publisher.PublishLevelUp(context.Background(), "user-1", 5, 40, "민수님 — Lv.5"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	fields := streamFields(t, mr, "gamify:events")
	if fields[FieldType] != EventLevelUp {
		t.Errorf("unexpected type: %s", fields[FieldType])
	}
	if fields[FieldUserID] != "user-1" {
		t.Errorf("unexpected user id: %s", fields[FieldUserID])
	}
	if fields[FieldLevel] != "5" {
		t.Errorf("unexpected level: %s", fields[FieldLevel])
	}
	if fields[FieldBonus] != "40" {
		t.Errorf("unexpected bonus: %s", fields[FieldBonus])
	}
	if fields[FieldSummary] != "민수님 — Lv.5" {
		t.Errorf("unexpected summary: %s", fields[FieldSummary])
	}
}

func TestPublisher_PublishAchievementUnlocked(t *testing.T) {
	publisher, client, mr := newTestPublisher(t, "gamify:events")
	defer client.Close()
	defer mr.Close()

	if err := publisher.PublishAchievementUnlocked(context.Background(), "user-1", "first_report", 10); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	fields := streamFields(t, mr, "gamify:events")
	if fields[FieldType] != EventAchievementUnlocked {
		t.Errorf("unexpected type: %s", fields[FieldType])
	}
	if fields[FieldAchievementID] != "first_report" {
		t.Errorf("unexpected achievement id: %s", fields[FieldAchievementID])
	}
	if fields[FieldPoints] != "10" {
		t.Errorf("unexpected points: %s", fields[FieldPoints])
	}
}

func TestPublisher_PublishStreakBonus(t *testing.T) {
	publisher, client, mr := newTestPublisher(t, "gamify:events")
	defer client.Close()
	defer mr.Close()

	if err := publisher.PublishStreakBonus(context.Background(), "user-1", 7, 35); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	fields := streamFields(t, mr, "gamify:events")
	if fields[FieldType] != EventStreakBonus {
		t.Errorf("unexpected type: %s", fields[FieldType])
	}
	if fields[FieldStreak] != "7" {
		t.Errorf("unexpected streak: %s", fields[FieldStreak])
	}
	if fields[FieldBonus] != "35" {
		t.Errorf("unexpected bonus: %s", fields[FieldBonus])
	}
}
