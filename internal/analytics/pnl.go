// Package analytics turns a raw collection of journal trades into
// equity curves, return series, win-rate aggregates and risk metrics.
//
// Every function here is pure: no I/O, no stored state, deterministic
// given its inputs. Functions that depend on the current time take an
// explicit "now" so results stay reproducible. Missing trade fields
// propagate as unknown rather than zero, and aggregates degrade to
// zero values instead of returning errors.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/bmcallister/trade-journal/internal/models"
)

// TradePnl returns the signed profit/loss of a trade. The second
// return value is false when any of direction, entry price, exit price
// or quantity is unknown; the PnL of such a trade is undefined, never
// zero.
func TradePnl(t models.Trade) (decimal.Decimal, bool) {
	if !models.ValidDirection(t.Direction) || t.EntryPrice == nil || t.ExitPrice == nil || t.Quantity == nil {
		return decimal.Zero, false
	}

	if t.Direction == models.DirectionLong {
		return t.ExitPrice.Sub(*t.EntryPrice).Mul(*t.Quantity), true
	}
	return t.EntryPrice.Sub(*t.ExitPrice).Mul(*t.Quantity), true
}

// TradeCapital returns the notional exposure |entryPrice * quantity|,
// or zero when either input is unknown.
func TradeCapital(t models.Trade) decimal.Decimal {
	if t.EntryPrice == nil || t.Quantity == nil {
		return decimal.Zero
	}
	return t.EntryPrice.Mul(*t.Quantity).Abs()
}
