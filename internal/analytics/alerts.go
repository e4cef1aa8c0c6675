package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Risk alert identifiers
const (
	AlertLossStreak = "loss-streak"
	AlertDrawdown   = "drawdown"
	AlertAvgLoss    = "avg-loss"
)

// RiskThresholds is the externally configured tuning surface of the
// alert evaluator. It is always passed in explicitly; the engine reads
// no ambient configuration.
type RiskThresholds struct {
	MaxLossStreak         int             `json:"max_loss_streak"`
	MaxDrawdownRate       decimal.Decimal `json:"max_drawdown_rate"`
	AverageLossMultiplier decimal.Decimal `json:"average_loss_multiplier"`
}

// RiskAlert is a threshold breach with fixed copy and a navigation
// target for the banner UI.
type RiskAlert struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Href        string `json:"href"`
	CtaLabel    string `json:"cta_label"`
}

// EvaluateRiskAlerts maps a summary and thresholds to the ordered list
// of triggered alerts. The three checks are independent; any subset
// can fire.
func EvaluateRiskAlerts(summary RiskSummary, thresholds RiskThresholds) []RiskAlert {
	var alerts []RiskAlert

	if summary.MaxLossStreak >= thresholds.MaxLossStreak {
		alerts = append(alerts, RiskAlert{
			ID:          AlertLossStreak,
			Title:       fmt.Sprintf("You have hit %d losses in a row", summary.MaxLossStreak),
			Description: "Consider sizing down and revisiting your entry criteria before the next trade.",
			Href:        "/trades",
			CtaLabel:    "Review losing streak",
		})
	}

	if summary.MaxDrawdownRate.GreaterThanOrEqual(thresholds.MaxDrawdownRate) {
		alerts = append(alerts, RiskAlert{
			ID:          AlertDrawdown,
			Title:       fmt.Sprintf("Max drawdown reached %s%%", summary.MaxDrawdownRate.Round(1)),
			Description: "Set a hard loss cap first and trade conservatively for a while.",
			Href:        "/trades",
			CtaLabel:    "View drawdown period",
		})
	}

	if summary.AverageLossAmountLast30Days.IsPositive() &&
		summary.AverageLossAmount.GreaterThanOrEqual(
			summary.AverageLossAmountLast30Days.Mul(thresholds.AverageLossMultiplier)) {
		alerts = append(alerts, RiskAlert{
			ID:          AlertAvgLoss,
			Title:       "Your average loss is growing quickly",
			Description: "Review your recent losing trades and tighten your stop-loss rules.",
			Href:        "/trades?direction=long",
			CtaLabel:    "See recent losses",
		})
	}

	return alerts
}
