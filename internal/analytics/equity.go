package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmcallister/trade-journal/internal/models"
)

var hundred = decimal.NewFromInt(100)

// EquityPoint is one step of the running equity curve. Equity always
// equals CumulativePnl; Rate is the cumulative return against the
// cumulative capital, as a percentage rounded to 2 decimals.
type EquityPoint struct {
	ID                string          `json:"id"`
	Date              *time.Time      `json:"date,omitempty"`
	CumulativePnl     decimal.Decimal `json:"cumulative_pnl"`
	CumulativeCapital decimal.Decimal `json:"cumulative_capital"`
	Equity            decimal.Decimal `json:"equity"`
	Rate              decimal.Decimal `json:"rate"`
}

// BuildEquityCurve produces one point per input trade, in ascending
// resolved-date order. A trade with unknown PnL still appears: it
// contributes zero to the running PnL and carries the prior equity
// forward, but its capital (when known) still grows the denominator.
func BuildEquityCurve(trades []models.Trade) []EquityPoint {
	sorted := SortByDateAsc(trades)

	cumulativePnl := decimal.Zero
	cumulativeCapital := decimal.Zero

	curve := make([]EquityPoint, 0, len(sorted))
	for _, t := range sorted {
		if pnl, ok := TradePnl(t); ok {
			cumulativePnl = cumulativePnl.Add(pnl)
		}
		cumulativeCapital = cumulativeCapital.Add(TradeCapital(t))

		rate := decimal.Zero
		if cumulativeCapital.IsPositive() {
			rate = cumulativePnl.Div(cumulativeCapital).Mul(hundred).Round(2)
		}

		var date *time.Time
		if d, ok := TradeDate(t); ok {
			d := d
			date = &d
		}

		curve = append(curve, EquityPoint{
			ID:                t.ID,
			Date:              date,
			CumulativePnl:     cumulativePnl,
			CumulativeCapital: cumulativeCapital,
			Equity:            cumulativePnl,
			Rate:              rate,
		})
	}
	return curve
}
