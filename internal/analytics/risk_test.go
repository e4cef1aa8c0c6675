package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmcallister/trade-journal/internal/models"
)

func TestCalculateRiskSummary(t *testing.T) {
	now := baseTime

	t.Run("two trade scenario", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("t1", models.DirectionLong, "100", "110", "1", day(-2)),  // +10
			newTrade("t2", models.DirectionShort, "100", "120", "1", day(-1)), // -20
		}

		summary := CalculateRiskSummary(trades, now)

		assert.Equal(t, 1, summary.MaxLossStreak)
		assert.Equal(t, 1, summary.LatestLossStreak)
		assert.Equal(t, 1, summary.LossTradeCount)
		assert.True(t, dec("20").Equal(summary.AverageLossAmount))
		assert.True(t, dec("20").Equal(summary.AverageLossAmountLast30Days))
		// Peak is 10, equity ends at -10.
		assert.True(t, dec("20").Equal(summary.MaxDrawdownAmount))
		// Peak 10 < baseline capital 100, so the rate denominator is 100.
		assert.True(t, dec("20").Equal(summary.MaxDrawdownRate))
	})

	t.Run("empty input degrades to zeros", func(t *testing.T) {
		summary := CalculateRiskSummary(nil, now)
		assert.Zero(t, summary.MaxLossStreak)
		assert.Zero(t, summary.LatestLossStreak)
		assert.Zero(t, summary.LossTradeCount)
		assert.True(t, summary.MaxDrawdownAmount.IsZero())
		assert.True(t, summary.MaxDrawdownRate.IsZero())
		assert.True(t, summary.AverageLossAmount.IsZero())
		assert.True(t, summary.AverageLossAmountLast30Days.IsZero())
	})

	t.Run("drawdown is zero when equity never declines", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("t1", models.DirectionLong, "10", "11", "1", day(-3)),
			newTrade("t2", models.DirectionLong, "10", "12", "1", day(-2)),
			newTrade("t3", models.DirectionLong, "10", "10", "1", day(-1)),
		}
		summary := CalculateRiskSummary(trades, now)
		assert.True(t, summary.MaxDrawdownAmount.IsZero())
		assert.True(t, summary.MaxDrawdownRate.IsZero())
	})

	t.Run("drawdown rate is taken at the deepest point", func(t *testing.T) {
		// Equity: 100, -100, -50. Deepest decline is 200 below the
		// peak of 100; the later partial recovery must not be reported.
		trades := []models.Trade{
			newTrade("t1", models.DirectionLong, "100", "200", "1", day(-4)), // +100
			newTrade("t2", models.DirectionLong, "300", "100", "1", day(-3)), // -200
			newTrade("t3", models.DirectionLong, "100", "150", "1", day(-2)), // +50
		}
		summary := CalculateRiskSummary(trades, now)
		assert.True(t, dec("200").Equal(summary.MaxDrawdownAmount))
		// Denominator max(peak 100, baseline 100, 1) = 100.
		assert.True(t, dec("200").Equal(summary.MaxDrawdownRate))
	})

	t.Run("ascending streak skips unknown pnl", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("l1", models.DirectionLong, "10", "9", "1", day(-5)),
			newTrade("u", models.DirectionLong, "10", "", "1", day(-4)),
			newTrade("l2", models.DirectionLong, "10", "9", "1", day(-3)),
			newTrade("l3", models.DirectionLong, "10", "9", "1", day(-2)),
		}
		summary := CalculateRiskSummary(trades, now)
		// The unknown trade neither extends nor resets the streak.
		assert.Equal(t, 3, summary.MaxLossStreak)
	})

	t.Run("latest streak stops at unknown pnl", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("l1", models.DirectionLong, "10", "9", "1", day(-4)),
			newTrade("l2", models.DirectionLong, "10", "9", "1", day(-3)),
			newTrade("u", models.DirectionLong, "10", "", "1", day(-2)),
			newTrade("l3", models.DirectionLong, "10", "9", "1", day(-1)),
		}
		summary := CalculateRiskSummary(trades, now)
		// Scanning from the most recent: l3 counts, then the unknown
		// terminates the streak even though older losses follow.
		assert.Equal(t, 1, summary.LatestLossStreak)
		assert.Equal(t, 3, summary.MaxLossStreak)
	})

	t.Run("recent win zeroes the latest streak", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("l1", models.DirectionLong, "10", "9", "1", day(-4)),
			newTrade("l2", models.DirectionLong, "10", "9", "1", day(-3)),
			newTrade("l3", models.DirectionLong, "10", "9", "1", day(-2)),
			newTrade("w", models.DirectionLong, "10", "12", "1", day(-1)),
		}
		summary := CalculateRiskSummary(trades, now)
		assert.Equal(t, 0, summary.LatestLossStreak)
		assert.Equal(t, 3, summary.MaxLossStreak)
		assert.LessOrEqual(t, summary.LatestLossStreak, summary.LossTradeCount)
	})

	t.Run("thirty day average ignores older losses", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("old", models.DirectionLong, "100", "0", "1", day(-60)),   // -100, outside window
			newTrade("new1", models.DirectionLong, "100", "90", "1", day(-5)),  // -10
			newTrade("new2", models.DirectionLong, "100", "70", "1", day(-3)),  // -30
		}
		summary := CalculateRiskSummary(trades, now)
		require.Equal(t, 3, summary.LossTradeCount)
		// Overall mean of 100, 10, 30.
		assert.True(t, dec("46.67").Equal(summary.AverageLossAmount))
		// Window mean of 10 and 30.
		assert.True(t, dec("20").Equal(summary.AverageLossAmountLast30Days))
	})

	t.Run("average loss is rounded to two decimals", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("l1", models.DirectionLong, "10", "9", "1", day(-3)),   // -1
			newTrade("l2", models.DirectionLong, "10", "8", "1", day(-2)),   // -2
			newTrade("l3", models.DirectionLong, "10", "9.5", "1", day(-1)), // -0.5
		}
		summary := CalculateRiskSummary(trades, now)
		assert.True(t, dec("1.17").Equal(summary.AverageLossAmount))
	})

	t.Run("all loss curve uses baseline capital for the rate", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("l1", models.DirectionLong, "200", "190", "1", day(-2)), // -10, capital 200
			newTrade("l2", models.DirectionLong, "200", "180", "1", day(-1)), // -20
		}
		summary := CalculateRiskSummary(trades, now)
		// Peak never rises above 0, so the denominator is the first
		// trade's capital: 30 / 200 = 15%.
		assert.True(t, dec("30").Equal(summary.MaxDrawdownAmount))
		assert.True(t, dec("15").Equal(summary.MaxDrawdownRate))
	})
}
