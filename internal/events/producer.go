package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/shopit/internal/logging"
)

const (
	TopicUsers    = "user_events"
	TopicProducts = "product_events"
	TopicOrders   = "order_events"

	publishTimeout = 5 * time.Second
)

type Event struct {
	Type string    `json:"type"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, ev Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	w messageWriter
}

func NewProducer(brokers []string) *Producer {
	return &Producer{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           publishTimeout,
	}}
}

func (p *Producer) Publish(ctx context.Context, topic string, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.w.WriteMessages(ctx, kafka.Message{Topic: topic, Key: []byte(ev.ID), Value: data}); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error { return p.w.Close() }

type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close() error                                  { return nil }

// Emit publishes without failing the caller. Events describe work that already
// committed, so a broker outage is logged and otherwise ignored.
func Emit(ctx context.Context, p Publisher, topic, typ, id string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(context.WithoutCancel(ctx), topic, Event{Type: typ, ID: id, Data: data}); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", topic, "type", typ, "id", id, "error", err)
	}
}
