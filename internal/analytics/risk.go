package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmcallister/trade-journal/internal/models"
)

// RiskSummary is a scalar snapshot of downside metrics over a trade
// collection. All values are >= 0.
type RiskSummary struct {
	MaxLossStreak               int             `json:"max_loss_streak"`
	LatestLossStreak            int             `json:"latest_loss_streak"`
	MaxDrawdownAmount           decimal.Decimal `json:"max_drawdown_amount"`
	MaxDrawdownRate             decimal.Decimal `json:"max_drawdown_rate"`
	AverageLossAmount           decimal.Decimal `json:"average_loss_amount"`
	AverageLossAmountLast30Days decimal.Decimal `json:"average_loss_amount_last_30_days"`
	LossTradeCount              int             `json:"loss_trade_count"`
}

// CalculateRiskSummary computes loss-streak, drawdown and average-loss
// metrics. now anchors the trailing 30-day average-loss window.
//
// Unknown PnL is handled differently in the two streak traversals: the
// ascending max-streak accumulation skips such trades (the running
// streak is unaffected), while the latest-streak scan from the most
// recent trade stops at the first unknown. The two loops are kept
// separate on purpose.
func CalculateRiskSummary(trades []models.Trade, now time.Time) RiskSummary {
	sortedAsc := SortByDateAsc(trades)

	maxLossStreak := 0
	currentLossStreak := 0
	baselineCapital := decimal.Zero
	baselineSet := false
	var lossValues []decimal.Decimal

	for _, t := range sortedAsc {
		pnl, ok := TradePnl(t)
		if !ok {
			continue
		}

		if pnl.IsNegative() {
			currentLossStreak++
			if currentLossStreak > maxLossStreak {
				maxLossStreak = currentLossStreak
			}
			lossValues = append(lossValues, pnl.Abs())
		} else {
			currentLossStreak = 0
		}

		if !baselineSet {
			baselineCapital = TradeCapital(t)
			baselineSet = true
		}
	}

	maxDrawdownAmount, maxDrawdownRate := maxDrawdown(BuildEquityCurve(sortedAsc), baselineCapital)

	recentLossValues := collectLossValues(FilterRecentDays(trades, 30, now))

	latestLossStreak := 0
	for _, t := range SortByDateDesc(trades) {
		pnl, ok := TradePnl(t)
		if !ok || !pnl.IsNegative() {
			break
		}
		latestLossStreak++
	}

	return RiskSummary{
		MaxLossStreak:               maxLossStreak,
		LatestLossStreak:            latestLossStreak,
		MaxDrawdownAmount:           maxDrawdownAmount.Round(2),
		MaxDrawdownRate:             maxDrawdownRate.Round(2),
		AverageLossAmount:           averageLoss(lossValues),
		AverageLossAmountLast30Days: averageLoss(recentLossValues),
		LossTradeCount:              len(lossValues),
	}
}

// maxDrawdown walks the equity curve tracking the running peak and
// returns the single deepest decline plus the rate measured at that
// same point. The rate denominator falls back to the baseline capital,
// and then to 1, so an all-loss curve that never sets a peak still
// yields a finite rate.
func maxDrawdown(curve []EquityPoint, baselineCapital decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	peak := decimal.Zero
	maxAmount := decimal.Zero
	maxRate := decimal.Zero

	for _, point := range curve {
		if point.Equity.GreaterThan(peak) {
			peak = point.Equity
		}
		drawdown := peak.Sub(point.Equity)

		denominator := decimal.Max(peak, baselineCapital, decimal.NewFromInt(1))
		rate := drawdown.Div(denominator).Mul(hundred)

		if drawdown.GreaterThan(maxAmount) {
			maxAmount = drawdown
			maxRate = rate
		}
	}
	return maxAmount, maxRate
}

func collectLossValues(trades []models.Trade) []decimal.Decimal {
	var losses []decimal.Decimal
	for _, t := range trades {
		if pnl, ok := TradePnl(t); ok && pnl.IsNegative() {
			losses = append(losses, pnl.Abs())
		}
	}
	return losses
}

func averageLoss(losses []decimal.Decimal) decimal.Decimal {
	if len(losses) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(losses[0], losses[1:]...).
		Div(decimal.NewFromInt(int64(len(losses)))).
		Round(2)
}
