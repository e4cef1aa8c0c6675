package models

import "time"

// Trade event type constants
const (
	EventTradeCreated  = "TRADE_CREATED"
	EventTradeDeleted  = "TRADE_DELETED"
	EventTradeImported = "TRADE_IMPORTED"
)

// TradeEvent is the Kafka payload for journal trade lifecycle events.
// Trade is present on created/imported events; deleted events carry
// only the id.
type TradeEvent struct {
	EventType string    `json:"event_type"`
	TradeID   string    `json:"trade_id"`
	UserID    string    `json:"user_id,omitempty"`
	Trade     *Trade    `json:"trade,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
