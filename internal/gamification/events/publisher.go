package events

import (
	"context"
	"log/slog"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/eco-report-bots/gamification-go/internal/common/mq"
	"github.com/park285/eco-report-bots/gamification-go/internal/common/telemetry"
)

// Publisher: 진행 이벤트(레벨업, 업적 해금, 스트릭 보너스)를 Valkey 스트림으로 발행한다.
// 알림 전달은 외부 구독자의 몫이라 발행 실패는 호출자가 경고 로그로만 처리한다.
type Publisher struct {
	publisher *mq.StreamPublisher
	logger    *slog.Logger
}

// NewPublisher: 새로운 Publisher 인스턴스를 생성합니다.
func NewPublisher(client valkey.Client, logger *slog.Logger, stream string, maxLen int64) *Publisher {
	return &Publisher{
		publisher: mq.NewStreamPublisher(client, logger, mq.StreamPublisherConfig{
			Stream: stream,
			MaxLen: maxLen,
		}),
		logger: logger,
	}
}

// PublishLevelUp: 레벨업 이벤트를 발행한다.
// summary는 알림 구독자가 그대로 내보낼 수 있는 한 줄 진행 요약이다.
func (p *Publisher) PublishLevelUp(ctx context.Context, userID string, newLevel int, bonus int, summary string) error {
	values := map[string]any{
		FieldType:   EventLevelUp,
		FieldUserID: userID,
		FieldLevel:  newLevel,
		FieldBonus:  bonus,
	}
	if summary != "" {
		values[FieldSummary] = summary
	}
	return p.publish(ctx, values)
}

// PublishAchievementUnlocked: 업적 해금 이벤트를 발행한다.
func (p *Publisher) PublishAchievementUnlocked(ctx context.Context, userID string, achievementID string, points int) error {
	return p.publish(ctx, map[string]any{
		FieldType:          EventAchievementUnlocked,
		FieldUserID:        userID,
		FieldAchievementID: achievementID,
		FieldPoints:        points,
	})
}

// PublishStreakBonus: 연속 활동 보너스 지급 이벤트를 발행한다.
func (p *Publisher) PublishStreakBonus(ctx context.Context, userID string, streak int, bonus int) error {
	return p.publish(ctx, map[string]any{
		FieldType:   EventStreakBonus,
		FieldUserID: userID,
		FieldStreak: streak,
		FieldBonus:  bonus,
	})
}

// publish: trace context를 메시지 필드에 주입한 뒤 XADD 한다.
func (p *Publisher) publish(ctx context.Context, values map[string]any) error {
	carrier := telemetry.MapCarrier{}
	telemetry.InjectContext(ctx, carrier)
	for k, v := range carrier {
		values[k] = v
	}

	if _, err := p.publisher.Publish(ctx, values); err != nil {
		return err
	}
	return nil
}
