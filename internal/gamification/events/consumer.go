package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/eco-report-bots/gamification-go/internal/common/mq"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/catalog"
	"github.com/park285/eco-report-bots/gamification-go/internal/gamification/model"
)

// Engine: 트리거 소비자가 호출하는 진행 엔진 계약.
type Engine interface {
	EnsureUser(ctx context.Context, userID string, displayName string) error
	AwardPoints(ctx context.Context, userID string, action model.Action, amount int) (*model.AwardResult, error)
	UpdateStreak(ctx context.Context, userID string, eventDate time.Time) (*model.StreakResult, error)
	CheckAchievements(ctx context.Context, userID string, category *model.Category) ([]catalog.Definition, error)
	UnlockAchievement(ctx context.Context, userID string, achievementID string) (bool, error)
}

// TriggerConsumerConfig: 트리거 스트림 소비자 설정.
type TriggerConsumerConfig struct {
	Stream string
	Group  string
	Name   string

	BatchSize           int64
	Block               time.Duration
	Concurrency         int
	ResetGroupOnStartup bool

	// Now: 시각 주입 (테스트용). nil이면 time.Now.
	Now func() time.Time
}

// TriggerConsumer: 외부 워크플로우(신고/소셜/팀 서비스)가 발행한 트리거 메시지를
// Consumer Group으로 읽어 엔진 메서드로 디스패치한다.
type TriggerConsumer struct {
	consumer *mq.StreamConsumer
	engine   Engine
	logger   *slog.Logger
	now      func() time.Time
}

// NewTriggerConsumer: 새로운 TriggerConsumer 인스턴스를 생성합니다.
func NewTriggerConsumer(client valkey.Client, logger *slog.Logger, engine Engine, cfg TriggerConsumerConfig) *TriggerConsumer {
	consumer := mq.NewStreamConsumer(client, logger, mq.StreamConsumerConfig{
		Stream:              cfg.Stream,
		Group:               cfg.Group,
		Name:                cfg.Name,
		BatchSize:           cfg.BatchSize,
		Block:               cfg.Block,
		Concurrency:         cfg.Concurrency,
		ResetGroupOnStartup: cfg.ResetGroupOnStartup,
	})
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TriggerConsumer{
		consumer: consumer,
		engine:   engine,
		logger:   logger,
		now:      now,
	}
}

// Run: 트리거 소비 루프를 실행합니다. (블로킹, context 취소 시 종료)
func (c *TriggerConsumer) Run(ctx context.Context) error {
	return c.consumer.Run(ctx, c.handle)
}

// handle: 메시지 하나를 파싱해 엔진으로 디스패치한다.
// 형식 오류(포이즌 메시지)는 재시도해도 소용없으므로 경고 후 ack 처리(nil 반환)하고,
// 엔진 오류는 에러로 돌려 재전달 대상으로 남긴다.
func (c *TriggerConsumer) handle(ctx context.Context, msg mq.XMessage) error {
	trig, err := parseTrigger(msg.Values, c.now())
	if err != nil {
		c.logger.WarnContext(ctx, "trigger_malformed", "id", msg.ID, "err", err)
		return nil
	}

	switch trig.Type {
	case TriggerCreateUser:
		return c.engine.EnsureUser(ctx, trig.UserID, trig.DisplayName)

	case TriggerAwardPoints:
		result, err := c.engine.AwardPoints(ctx, trig.UserID, trig.Action, trig.Amount)
		if err != nil {
			return fmt.Errorf("award points trigger: %w", err)
		}
		c.logger.DebugContext(ctx, "trigger_points_awarded",
			"user_id", trig.UserID, "action", string(trig.Action), "awarded", result.PointsAwarded)
		return nil

	case TriggerUpdateStreak:
		result, err := c.engine.UpdateStreak(ctx, trig.UserID, trig.EventDate)
		if err != nil {
			return fmt.Errorf("update streak trigger: %w", err)
		}
		c.logger.DebugContext(ctx, "trigger_streak_updated",
			"user_id", trig.UserID, "streak", result.Streak)
		return nil

	case TriggerCheckAchievements:
		unlocked, err := c.engine.CheckAchievements(ctx, trig.UserID, trig.Category)
		if err != nil {
			return fmt.Errorf("check achievements trigger: %w", err)
		}
		c.logger.DebugContext(ctx, "trigger_achievements_checked",
			"user_id", trig.UserID, "unlocked", len(unlocked))
		return nil

	case TriggerUnlockAchievement:
		unlocked, err := c.engine.UnlockAchievement(ctx, trig.UserID, trig.AchievementID)
		if err != nil {
			return fmt.Errorf("unlock achievement trigger: %w", err)
		}
		c.logger.DebugContext(ctx, "trigger_achievement_unlock",
			"user_id", trig.UserID, "achievement_id", trig.AchievementID, "unlocked", unlocked)
		return nil

	default:
		// 모르는 트리거는 버전 차이일 수 있으니 버리고 넘어간다.
		c.logger.WarnContext(ctx, "trigger_unknown_type", "id", msg.ID, "type", trig.Type)
		return nil
	}
}

// trigger: 파싱된 인바운드 트리거.
type trigger struct {
	Type          string
	UserID        string
	DisplayName   string
	Action        model.Action
	Amount        int
	EventDate     time.Time
	Category      *model.Category
	AchievementID string
}

// parseTrigger: 스트림 필드 맵을 trigger로 파싱하고 타입별 필수 필드를 검증한다.
func parseTrigger(values map[string]string, now time.Time) (trigger, error) {
	trig := trigger{
		Type:          strings.TrimSpace(values[FieldType]),
		UserID:        strings.TrimSpace(values[FieldUserID]),
		DisplayName:   strings.TrimSpace(values[FieldDisplayName]),
		Action:        model.Action(strings.TrimSpace(values[FieldAction])),
		AchievementID: strings.TrimSpace(values[FieldAchievementID]),
	}

	if trig.Type == "" {
		return trigger{}, fmt.Errorf("missing field: %s", FieldType)
	}
	if trig.UserID == "" {
		return trigger{}, fmt.Errorf("missing field: %s", FieldUserID)
	}

	if raw := strings.TrimSpace(values[FieldAmount]); raw != "" {
		amount, err := strconv.Atoi(raw)
		if err != nil {
			return trigger{}, fmt.Errorf("invalid %s: %q", FieldAmount, raw)
		}
		trig.Amount = amount
	}

	if raw := strings.TrimSpace(values[FieldCategory]); raw != "" {
		category := model.Category(raw)
		trig.Category = &category
	}

	switch trig.Type {
	case TriggerAwardPoints:
		if trig.Action == "" {
			return trigger{}, fmt.Errorf("missing field: %s", FieldAction)
		}
	case TriggerUpdateStreak:
		raw := strings.TrimSpace(values[FieldEventDate])
		if raw == "" {
			// 생략 시 소비 시각의 UTC 달력 날짜로 처리한다.
			trig.EventDate = model.NormalizeDate(now.UTC())
			break
		}
		eventDate, err := time.Parse(EventDateLayout, raw)
		if err != nil {
			return trigger{}, fmt.Errorf("invalid %s: %q", FieldEventDate, raw)
		}
		trig.EventDate = eventDate
	case TriggerUnlockAchievement:
		if trig.AchievementID == "" {
			return trigger{}, fmt.Errorf("missing field: %s", FieldAchievementID)
		}
	}

	return trig, nil
}
