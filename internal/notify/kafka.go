package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/order"
)

// KafkaPublisher emits order-placed events for downstream consumers
// (fulfillment, email). The message key is the order id so events for one
// order stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

type orderPlacedEvent struct {
	OrderID  string    `json:"order_id"`
	Email    string    `json:"email"`
	Total    float64   `json:"total"`
	Items    int       `json:"items"`
	PlacedAt time.Time `json:"placed_at"`
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o *order.Order) error {
	items := 0
	for _, l := range o.Lines {
		items += l.Quantity
	}

	payload, err := json.Marshal(orderPlacedEvent{
		OrderID:  o.ID,
		Email:    o.Shipping.Email,
		Total:    o.Total,
		Items:    items,
		PlacedAt: o.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(o.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.placed")},
		},
	}

	if e2 := p.writer.WriteMessages(ctx, msg); e2 != nil {
		return fmt.Errorf("publish order placed event: %w", e2)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
