package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmcallister/trade-journal/internal/models"
)

// Shared builders for analytics tests.

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decPtr returns nil for "", mirroring an unrecorded field.
func decPtr(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d := decimal.RequireFromString(s)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// newTrade builds a trade with an entry date; empty strings leave the
// corresponding field unknown.
func newTrade(id, direction, entry, exit, qty string, at time.Time) models.Trade {
	return models.Trade{
		ID:         id,
		Direction:  direction,
		EntryPrice: decPtr(entry),
		ExitPrice:  decPtr(exit),
		Quantity:   decPtr(qty),
		EntryAt:    timePtr(at),
	}
}

// newUndatedTrade builds a trade with neither entry nor created time.
func newUndatedTrade(id, direction, entry, exit, qty string) models.Trade {
	return models.Trade{
		ID:         id,
		Direction:  direction,
		EntryPrice: decPtr(entry),
		ExitPrice:  decPtr(exit),
		Quantity:   decPtr(qty),
	}
}

var baseTime = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return baseTime.AddDate(0, 0, offset)
}
