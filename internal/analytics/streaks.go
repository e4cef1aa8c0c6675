package analytics

import "github.com/bmcallister/trade-journal/internal/models"

// BuildLossStreakMap annotates every trade with the number of
// consecutive losing trades ending at it, scanning from the most
// recent backwards. A winning, breakeven or unknown-PnL trade resets
// the counter and is recorded as 0, so each trade id always has an
// entry.
func BuildLossStreakMap(trades []models.Trade) map[string]int {
	streaks := make(map[string]int, len(trades))

	current := 0
	for _, t := range SortByDateDesc(trades) {
		if pnl, ok := TradePnl(t); ok && pnl.IsNegative() {
			current++
			streaks[t.ID] = current
			continue
		}
		current = 0
		streaks[t.ID] = 0
	}
	return streaks
}
