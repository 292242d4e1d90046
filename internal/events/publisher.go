package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/altazaj/internal/transport"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer      MessageWriter
	ordersTopic string
	menuTopic   string
}

func NewPublisher(brokers []string, ordersTopic, menuTopic string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
	return NewPublisherWithWriter(w, ordersTopic, menuTopic)
}

func NewPublisherWithWriter(w MessageWriter, ordersTopic, menuTopic string) *Publisher {
	return &Publisher{writer: w, ordersTopic: ordersTopic, menuTopic: menuTopic}
}

func (p *Publisher) PublishOrderEvent(ctx context.Context, ev transport.OrderEvent) error {
	return p.publish(ctx, p.ordersTopic, ev.Order.ID.String(), ev)
}

func (p *Publisher) PublishMenuEvent(ctx context.Context, ev transport.MenuEvent) error {
	return p.publish(ctx, p.menuTopic, ev.ItemID.String(), ev)
}

func (p *Publisher) publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) PublishOrderEvent(context.Context, transport.OrderEvent) error { return nil }
func (Nop) PublishMenuEvent(context.Context, transport.MenuEvent) error   { return nil }
func (Nop) Close() error                                                  { return nil }
