package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmcallister/trade-journal/internal/models"
)

func TestBuildCumulativeRateSeries(t *testing.T) {
	t.Run("maps the curve one to one", func(t *testing.T) {
		at := time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)
		trades := []models.Trade{
			newTrade("t1", models.DirectionLong, "100", "110", "1", at),
			newTrade("t2", models.DirectionLong, "100", "90", "1", at.AddDate(0, 0, 1)),
		}

		series := BuildCumulativeRateSeries(trades)
		require.Len(t, series, 2)

		assert.Equal(t, 1, series[0].Index)
		assert.Equal(t, "3/7", series[0].Label)
		assert.True(t, dec("10").Equal(series[0].Rate))

		assert.Equal(t, 2, series[1].Index)
		assert.Equal(t, "3/8", series[1].Label)
		assert.True(t, dec("0").Equal(series[1].Rate))
	})

	t.Run("undated points fall back to the index label", func(t *testing.T) {
		trades := []models.Trade{
			newUndatedTrade("u", models.DirectionLong, "100", "110", "1"),
		}
		series := BuildCumulativeRateSeries(trades)
		require.Len(t, series, 1)
		assert.Equal(t, "1", series[0].Label)
	})

	t.Run("does not truncate long inputs", func(t *testing.T) {
		var trades []models.Trade
		for i := 0; i < 40; i++ {
			trades = append(trades, newTrade("t", models.DirectionLong, "1", "2", "1", day(i)))
		}
		assert.Len(t, BuildCumulativeRateSeries(trades), 40)
	})
}

func TestBuildMonthlyWinRateSeries(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	t.Run("groups by calendar month sorted ascending", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("f1", models.DirectionLong, "10", "12", "1", feb),
			newTrade("j1", models.DirectionLong, "10", "12", "1", jan),
			newTrade("j2", models.DirectionLong, "10", "8", "1", jan),
			newTrade("j3", models.DirectionShort, "10", "8", "1", jan),
		}

		series := BuildMonthlyWinRateSeries(trades)
		require.Len(t, series, 2)

		assert.Equal(t, "2024-01", series[0].Month)
		assert.Equal(t, "Jan", series[0].Label)
		assert.Equal(t, 3, series[0].Total)
		assert.Equal(t, 2, series[0].Win)
		assert.True(t, dec("66.7").Equal(series[0].WinRate))

		assert.Equal(t, "2024-02", series[1].Month)
		assert.Equal(t, 1, series[1].Total)
		assert.True(t, dec("100").Equal(series[1].WinRate))
	})

	t.Run("breakeven and unknown trades count for neither side", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("flat", models.DirectionLong, "10", "10", "1", jan),
			newTrade("unknown", models.DirectionLong, "10", "", "1", jan),
			newUndatedTrade("nodate", models.DirectionLong, "10", "12", "1"),
		}
		assert.Empty(t, BuildMonthlyWinRateSeries(trades))
	})

	t.Run("win count never exceeds total", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("w", models.DirectionLong, "10", "12", "1", jan),
			newTrade("l", models.DirectionLong, "10", "9", "1", jan),
		}
		series := BuildMonthlyWinRateSeries(trades)
		require.Len(t, series, 1)
		assert.LessOrEqual(t, series[0].Win, series[0].Total)
		assert.True(t, series[0].WinRate.GreaterThanOrEqual(dec("0")))
		assert.True(t, series[0].WinRate.LessThanOrEqual(dec("100")))
	})

	t.Run("same month in different years stays separate", func(t *testing.T) {
		trades := []models.Trade{
			newTrade("a", models.DirectionLong, "10", "12", "1", jan),
			newTrade("b", models.DirectionLong, "10", "12", "1", jan.AddDate(1, 0, 0)),
		}
		series := BuildMonthlyWinRateSeries(trades)
		require.Len(t, series, 2)
		assert.Equal(t, "2024-01", series[0].Month)
		assert.Equal(t, "2025-01", series[1].Month)
	})
}
