package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"

	cerrors "github.com/park285/eco-report-bots/gamification-go/internal/common/errors"
)

func newTestLockManager(t *testing.T) (*UserLockManager, valkey.Client, *miniredis.Miniredis) {
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
	return NewUserLockManager(client, logger), client, mr
}

func TestUserLockManager_RunsBlockAndReleases(t *testing.T) {
	manager, client, mr := newTestLockManager(t)
	defer client.Close()
	defer mr.Close()

	ctx := context.Background()
	key := userLockKey("user-1")

	ran := false
	err := manager.WithUserLock(ctx, "user-1", func(ctx context.Context) error {
		ran = true
		if !mr.Exists(key) {
			t.Errorf("expected lock key to exist during block")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with user lock failed: %v", err)
	}
	if !ran {
		t.Fatal("expected block to run")
	}
	if mr.Exists(key) {
		t.Errorf("expected lock key to be released after block")
	}
}

func TestUserLockManager_SequentialReentry(t *testing.T) {
	manager, client, mr := newTestLockManager(t)
	defer client.Close()
	defer mr.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := manager.WithUserLock(ctx, "user-1", func(ctx context.Context) error {
			return nil
		}); err != nil {
			t.Fatalf("iteration %d failed: %v", i, err)
		}
	}
}

func TestUserLockManager_BlockedByForeignHolder(t *testing.T) {
	manager, client, mr := newTestLockManager(t)
	defer client.Close()
	defer mr.Close()

	ctx := context.Background()
	key := userLockKey("user-1")
	if err := mr.Set(key, "foreign-token"); err != nil {
		t.Fatalf("seed lock failed: %v", err)
	}

	err := manager.WithUserLock(ctx, "user-1", func(ctx context.Context) error {
		t.Error("block must not run while lock is held by someone else")
		return nil
	})
	var lockErr cerrors.LockError
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected LockError, got: %v", err)
	}
	// 남의 토큰은 건드리지 않는다.
	if got, _ := mr.Get(key); got != "foreign-token" {
		t.Errorf("expected foreign lock to survive, got %q", got)
	}
}

func TestUserLockManager_BlockErrorStillReleases(t *testing.T) {
	manager, client, mr := newTestLockManager(t)
	defer client.Close()
	defer mr.Close()

	ctx := context.Background()
	wantErr := errors.New("boom")

	err := manager.WithUserLock(ctx, "user-1", func(ctx context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected block error to propagate, got: %v", err)
	}
	if mr.Exists(userLockKey("user-1")) {
		t.Errorf("expected lock key to be released after block error")
	}
}

func TestUserLockManager_EmptyUserID(t *testing.T) {
	manager, client, mr := newTestLockManager(t)
	defer client.Close()
	defer mr.Close()

	err := manager.WithUserLock(context.Background(), "  ", func(ctx context.Context) error {
		t.Error("block must not run")
		return nil
	})
	if err == nil {
		t.Fatal("expected error for empty user id")
	}
}
