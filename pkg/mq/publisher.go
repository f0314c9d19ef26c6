package mq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"skillswap/config"
)

// Publisher 审计事件发布接口
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// NewPublisher 连接 RabbitMQ 并声明 topic exchange
// URL 为空或连接失败时降级为 noop 发布器，不中断启动
func NewPublisher(cfg *config.MQConfig, logger *zap.Logger) Publisher {
	if cfg.URL == "" {
		logger.Info("未配置 MQ 地址，审计事件使用 noop 发布器")
		return noopPublisher{logger: logger}
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		logger.Warn("RabbitMQ 连接失败，审计事件使用 noop 发布器", zap.Error(err))
		return noopPublisher{logger: logger}
	}

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("RabbitMQ 打开 channel 失败，审计事件使用 noop 发布器", zap.Error(err))
		_ = conn.Close()
		return noopPublisher{logger: logger}
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		logger.Warn("RabbitMQ 声明 exchange 失败，审计事件使用 noop 发布器", zap.Error(err))
		_ = ch.Close()
		_ = conn.Close()
		return noopPublisher{logger: logger}
	}

	logger.Info("RabbitMQ 连接成功", zap.String("exchange", cfg.Exchange))
	return &amqpPublisher{conn: conn, ch: ch, exchange: cfg.Exchange}
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct {
	logger *zap.Logger
}

func (p noopPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.logger.Debug("noop 发布审计事件", zap.String("routing_key", routingKey))
	return nil
}

func (noopPublisher) Close() error { return nil }

// Mode 返回发布器模式，用于启动日志
func Mode(p Publisher) string {
	switch p.(type) {
	case *amqpPublisher:
		return "amqp"
	case noopPublisher:
		return "noop"
	default:
		return "custom"
	}
}
