package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/bmcallister/trade-journal/internal/models"
)

// TradeRepository defines the interface for imported trade persistence
type TradeRepository interface {
	CreateImportedTrade(userID string, input *models.TradeInput, externalRef string) (*models.Trade, error)
	TradeExistsByExternalRef(externalRef string) (bool, error)
}

// Consumer handles consuming imported trade events from Kafka.
// External systems (broker exports, batch importers) publish
// TRADE_IMPORTED events; the consumer writes them into the journal,
// deduplicating on the external reference.
type Consumer struct {
	reader *kafka.Reader
	repo   TradeRepository
}

// NewConsumer creates a new Kafka consumer for imported trade events
func NewConsumer(brokers []string, topic, groupID string, repo TradeRepository) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		repo:   repo,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("Starting Kafka consumer for topic: %s", c.reader.Config().Topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("Kafka consumer shutting down...")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				log.Printf("Error reading message: %v", err)
				continue
			}

			if err := c.processMessage(msg); err != nil {
				log.Printf("Error processing message: %v", err)
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(msg kafka.Message) error {
	log.Printf("Received message from partition %d offset %d: key=%s",
		msg.Partition, msg.Offset, string(msg.Key))

	var event models.TradeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal trade event: %w", err)
	}

	// Only process TRADE_IMPORTED events
	if event.EventType != models.EventTradeImported {
		log.Printf("Ignoring event type: %s", event.EventType)
		return nil
	}

	if event.Trade == nil {
		return fmt.Errorf("imported event %s has no trade payload", event.TradeID)
	}
	if event.UserID == "" {
		return fmt.Errorf("imported event %s has no user id", event.TradeID)
	}

	// Check for duplicate (idempotency)
	externalRef := externalRefFor(event)
	exists, err := c.repo.TradeExistsByExternalRef(externalRef)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate trade: %w", err)
	}
	if exists {
		log.Printf("Imported trade %s already exists, skipping", externalRef)
		return nil
	}

	input, err := convertEventToInput(event)
	if err != nil {
		return fmt.Errorf("failed to convert imported event: %w", err)
	}

	trade, err := c.repo.CreateImportedTrade(event.UserID, input, externalRef)
	if err != nil {
		return fmt.Errorf("failed to save imported trade: %w", err)
	}

	log.Printf("Saved imported trade %s: %s %s (external_ref: %s)",
		trade.ID, trade.Direction, trade.Symbol, externalRef)

	return nil
}

// externalRefFor picks the dedupe key for an imported event. Events
// without an explicit reference fall back to the upstream trade id.
func externalRefFor(event models.TradeEvent) string {
	if event.Trade.ExternalRef != "" {
		return event.Trade.ExternalRef
	}
	return event.TradeID
}

// convertEventToInput maps an imported trade payload to a TradeInput
func convertEventToInput(event models.TradeEvent) (*models.TradeInput, error) {
	t := event.Trade

	symbol := strings.ToUpper(strings.TrimSpace(t.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("imported trade has no symbol")
	}

	// Direction may be absent; any other value is an upstream bug.
	if t.Direction != "" && !models.ValidDirection(t.Direction) {
		return nil, fmt.Errorf("invalid trade direction: %s", t.Direction)
	}

	return &models.TradeInput{
		Symbol:     symbol,
		Direction:  t.Direction,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		Quantity:   t.Quantity,
		EntryAt:    t.EntryAt,
		ExitAt:     t.ExitAt,
		Notes:      t.Notes,
	}, nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
