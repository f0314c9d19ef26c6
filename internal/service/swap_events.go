package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skillswap/internal/model"
	"skillswap/pkg/metrics"
	"skillswap/pkg/mq"
)

// 审计事件路由键
const (
	EventSwapCreated   = "swap.created"
	EventSwapAccepted  = "swap.accepted"
	EventSwapRejected  = "swap.rejected"
	EventSwapCancelled = "swap.cancelled"
	EventSwapRated     = "swap.rated"
	EventSwapCompleted = "swap.completed"
)

// SwapEvent 交换请求审计事件
type SwapEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	SwapRequestID string    `json:"swap_request_id"`
	ActorID       string    `json:"actor_id"`
	FromUserID    string    `json:"from_user_id"`
	ToUserID      string    `json:"to_user_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type eventEmitter struct {
	publisher mq.Publisher
	logger    *zap.Logger
}

// emit 事务提交后发布，失败仅记录日志与指标，不影响业务结果
func (e eventEmitter) emit(ctx context.Context, eventType, actorID string, swap *model.SwapRequest) {
	if e.publisher == nil {
		return
	}
	evt := SwapEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		SwapRequestID: swap.SwapRequestID,
		ActorID:       actorID,
		FromUserID:    swap.FromUserID,
		ToUserID:      swap.ToUserID,
		Status:        string(swap.Status),
		OccurredAt:    time.Now().UTC(),
	}
	if err := e.publisher.Publish(ctx, eventType, evt); err != nil {
		metrics.IncEventPublishError()
		e.logger.Warn("发布审计事件失败",
			zap.String("type", eventType),
			zap.String("swap_request_id", swap.SwapRequestID),
			zap.Error(err),
		)
	}
}
