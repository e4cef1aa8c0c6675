package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/bmcallister/trade-journal/internal/models"
)

// Producer handles publishing journal events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishTradeCreated publishes a trade created event
func (p *Producer) PublishTradeCreated(ctx context.Context, trade *models.Trade) error {
	event := models.TradeEvent{
		EventType: models.EventTradeCreated,
		TradeID:   trade.ID,
		UserID:    trade.UserID,
		Trade:     trade,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, trade.ID, event)
}

// PublishTradeDeleted publishes a trade deleted event
func (p *Producer) PublishTradeDeleted(ctx context.Context, userID, tradeID string) error {
	event := models.TradeEvent{
		EventType: models.EventTradeDeleted,
		TradeID:   tradeID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, tradeID, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.TradeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
