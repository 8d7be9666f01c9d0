package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ekartshop/backend/internal/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const topicOrders = "ekart.orders"

// order lifecycle event types
const (
	EventOrderCreated = "order.created"
	EventOrderPaid    = "order.paid"
)

// OrderEvent is payload published to the orders topic
type OrderEvent struct {
	Event      string    `json:"event"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	Total      int64     `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher publishes order lifecycle events to kafka. Without configured
// brokers the publisher is disabled and all publishes are no-ops.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewPublisher creates new Publisher instance
func NewPublisher(brokers []string, logger *zap.Logger) *Publisher {
	p := &Publisher{logger: logger}

	if len(brokers) == 0 {
		logger.Info("kafka brokers are not set, order events are disabled")
		return p
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topicOrders,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		// fire-and-forget, errors are reported via Completion
		Async: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("publish order event", zap.Error(err))
			}
		},
	}
	return p
}

// Enabled reports whether publisher has brokers to write to
func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// Publish writes single lifecycle event for order. Partition key is the
// order id so events of one order keep their relative order.
func (p *Publisher) Publish(ctx context.Context, event string, order models.Order) error {
	if !p.Enabled() {
		return nil
	}

	payload, err := json.Marshal(OrderEvent{
		Event:      event,
		OrderID:    order.ID,
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
	})
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
