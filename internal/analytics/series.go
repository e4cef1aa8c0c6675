package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmcallister/trade-journal/internal/models"
)

// CumulativePoint is a chart-ready sample of the cumulative return
// rate. Label is a short month/day label, or the 1-based index as text
// when the underlying trade has no resolved date.
type CumulativePoint struct {
	Index int             `json:"index"`
	Label string          `json:"label"`
	Rate  decimal.Decimal `json:"rate"`
}

// MonthlyWinRatePoint aggregates win rate for one calendar month.
// Month is the sortable "YYYY-MM" key, Label a short month name.
type MonthlyWinRatePoint struct {
	Month   string          `json:"month"`
	Label   string          `json:"label"`
	Total   int             `json:"total"`
	Win     int             `json:"win"`
	WinRate decimal.Decimal `json:"win_rate"`
}

// BuildCumulativeRateSeries maps the equity curve of the given trades
// 1:1 into chart points. It never truncates; callers decide the window
// (typically via FilterRecentDays) and any point cap before calling.
func BuildCumulativeRateSeries(trades []models.Trade) []CumulativePoint {
	curve := BuildEquityCurve(trades)

	series := make([]CumulativePoint, 0, len(curve))
	for i, point := range curve {
		label := strconv.Itoa(i + 1)
		if point.Date != nil {
			label = point.Date.Format("1/2")
		}
		series = append(series, CumulativePoint{
			Index: i + 1,
			Label: label,
			Rate:  point.Rate,
		})
	}
	return series
}

// BuildMonthlyWinRateSeries groups trades by the calendar year-month
// of their resolved date. Only trades with a defined, non-zero PnL
// count: breakeven trades belong to neither the numerator nor the
// denominator. A month with no contributing trades simply does not
// appear. The result is sorted ascending by month.
//
// The projector makes no window assumption; pre-filter the trades to
// choose the analysis period.
func BuildMonthlyWinRateSeries(trades []models.Trade) []MonthlyWinRatePoint {
	type monthKey struct {
		year  int
		month time.Month
	}
	type monthStat struct {
		total int
		win   int
	}

	months := make(map[monthKey]*monthStat)

	for _, t := range trades {
		date, ok := TradeDate(t)
		if !ok {
			continue
		}
		pnl, ok := TradePnl(t)
		if !ok || pnl.IsZero() {
			continue
		}

		key := monthKey{year: date.Year(), month: date.Month()}
		stat := months[key]
		if stat == nil {
			stat = &monthStat{}
			months[key] = stat
		}
		stat.total++
		if pnl.IsPositive() {
			stat.win++
		}
	}

	keys := make([]monthKey, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	series := make([]MonthlyWinRatePoint, 0, len(keys))
	for _, k := range keys {
		stat := months[k]
		winRate := decimal.Zero
		if stat.total > 0 {
			winRate = decimal.NewFromInt(int64(stat.win)).
				Div(decimal.NewFromInt(int64(stat.total))).
				Mul(hundred).
				Round(1)
		}
		series = append(series, MonthlyWinRatePoint{
			Month:   fmt.Sprintf("%04d-%02d", k.year, int(k.month)),
			Label:   time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan"),
			Total:   stat.total,
			Win:     stat.win,
			WinRate: winRate,
		})
	}
	return series
}
