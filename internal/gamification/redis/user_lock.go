package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	cerrors "github.com/park285/eco-report-bots/gamification-go/internal/common/errors"
	"github.com/park285/eco-report-bots/gamification-go/internal/common/lockutil"
	luautil "github.com/park285/eco-report-bots/gamification-go/internal/common/lua"
	"github.com/park285/eco-report-bots/gamification-go/internal/common/valkeyx"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/assets"
	gconfig "github.com/park285/eco-report-bots/gamification-go/internal/gamification/config"
)

// UserLockManager: 사용자별 배타 락(Distributed Lock) 관리자.
// SET NX + 고유 토큰으로 획득하고, 토큰 일치 시에만 해제하는 Lua 스크립트로 풀어
// TTL 만료 후 타인의 락을 지우는 사고를 방지한다.
type UserLockManager struct {
	client valkey.Client
	logger *slog.Logger

	registry         *luautil.Registry
	redisCallTimeout time.Duration
}

// NewUserLockManager: 새로운 UserLockManager 인스턴스를 생성합니다.
func NewUserLockManager(client valkey.Client, logger *slog.Logger) *UserLockManager {
	registry := luautil.NewRegistry([]luautil.Script{
		{Name: luautil.ScriptUserLockRelease, Source: assets.UserLockReleaseLua},
	})

	preloadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := registry.Preload(preloadCtx, client); err != nil && logger != nil {
		logger.Warn("lua_preload_failed", "component", "gamification_user_lock", "err", err)
	}
	return &UserLockManager{
		client:           client,
		logger:           logger,
		registry:         registry,
		redisCallTimeout: 5 * time.Second,
	}
}

// WithUserLock: 사용자 락을 획득한 상태에서 주어진 함수(block)를 실행합니다.
// 대기 한도 내에 획득하지 못하면 LockError를 반환하며, 실행 완료 후 자동으로 해제합니다.
func (m *UserLockManager) WithUserLock(ctx context.Context, userID string, block func(ctx context.Context) error) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is empty")
	}

	token, err := lockutil.NewToken()
	if err != nil {
		return fmt.Errorf("generate lock token failed: %w", err)
	}

	key := userLockKey(userID)
	acquired, err := m.acquire(ctx, key, token)
	if err != nil {
		return err
	}
	if !acquired {
		return cerrors.LockError{
			SessionID:   userID,
			Description: "failed to acquire user lock",
		}
	}

	defer func() {
		releaseCtx, releaseCancel := context.WithTimeout(context.WithoutCancel(ctx), m.redisCallTimeout)
		defer releaseCancel()
		if err := m.release(releaseCtx, key, token); err != nil {
			m.logger.Warn("user_lock_release_failed", "err", err, "user_id", userID)
		}
	}()

	m.logger.Debug("user_lock_acquired", "user_id", userID)
	return block(ctx)
}

// acquire: SET NX EX로 락 획득을 시도하고, 실패 시 폴링 간격으로 재시도합니다.
// 전체 대기 시간은 UserLockMaxWaitMS로 제한됩니다.
func (m *UserLockManager) acquire(ctx context.Context, key string, token string) (bool, error) {
	deadline := time.Now().Add(time.Duration(gconfig.UserLockMaxWaitMS) * time.Millisecond)
	ttl := lockutil.TTLDurationFromSeconds(gconfig.UserLockTTLSeconds)

	for {
		cmd := m.client.B().Set().Key(key).Value(token).Nx().Ex(ttl).Build()
		err := m.client.Do(ctx, cmd).Error()
		if err == nil {
			return true, nil
		}
		if !valkeyx.IsNil(err) {
			return false, cerrors.RedisError{Operation: "user_lock_acquire", Err: err}
		}

		if time.Now().After(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(time.Duration(gconfig.UserLockWaitMS) * time.Millisecond):
		}
	}
}

// release: 토큰이 일치할 때만 락을 해제합니다.
func (m *UserLockManager) release(ctx context.Context, key string, token string) error {
	resp, err := m.registry.Exec(ctx, m.client, luautil.ScriptUserLockRelease, []string{key}, []string{token})
	if err != nil {
		return fmt.Errorf("exec user lock release: %w", err)
	}
	released, err := valkeyx.ParseLuaInt64(resp)
	if err != nil {
		return cerrors.RedisError{Operation: "user_lock_release", Err: err}
	}
	if released == 0 {
		// TTL 만료로 다른 보유자가 생긴 경우. 해제할 것이 없다.
		m.logger.Debug("user_lock_already_released", "key", key)
	}
	return nil
}
