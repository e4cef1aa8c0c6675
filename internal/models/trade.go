package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade direction constants
const (
	DirectionLong  = "long"
	DirectionShort = "short"
)

// ValidDirection reports whether d is a known trade direction.
func ValidDirection(d string) bool {
	return d == DirectionLong || d == DirectionShort
}

// Trade represents a single journal entry. Price, quantity and date
// fields are pointers: nil means the user never recorded the value, and
// everything downstream must treat it as unknown rather than zero.
type Trade struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id,omitempty"`
	Symbol      string           `json:"symbol,omitempty"`
	Direction   string           `json:"direction,omitempty"`
	EntryPrice  *decimal.Decimal `json:"entry_price,omitempty"`
	ExitPrice   *decimal.Decimal `json:"exit_price,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	EntryAt     *time.Time       `json:"entry_at,omitempty"`
	ExitAt      *time.Time       `json:"exit_at,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"`
	ExternalRef string           `json:"external_ref,omitempty"`

	// Tag names, populated on detail lookups only.
	Strategies []string `json:"strategies,omitempty"`
	Emotions   []string `json:"emotions,omitempty"`
}

// TradeFilter narrows a trade listing. Zero values mean "no filter".
type TradeFilter struct {
	UserID    string
	From      *time.Time
	To        *time.Time
	Direction string
	Symbol    string
	Limit     int
	Offset    int
}

// TradeInput carries the fields accepted when creating a trade, plus
// the tag ids to link.
type TradeInput struct {
	Symbol      string           `json:"symbol"`
	Direction   string           `json:"direction"`
	EntryPrice  *decimal.Decimal `json:"entry_price,omitempty"`
	ExitPrice   *decimal.Decimal `json:"exit_price,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	EntryAt     *time.Time       `json:"entry_at,omitempty"`
	ExitAt      *time.Time       `json:"exit_at,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	StrategyIDs []string         `json:"strategy_ids,omitempty"`
	EmotionIDs  []string         `json:"emotion_ids,omitempty"`
}

// TagOption is a selectable strategy or emotion tag.
type TagOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
