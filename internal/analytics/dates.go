package analytics

import (
	"sort"
	"time"

	"github.com/bmcallister/trade-journal/internal/models"
)

// TradeDate resolves the single timestamp used to place a trade in
// time: the entry time when recorded, otherwise the record creation
// time. The second return value is false when neither is known.
func TradeDate(t models.Trade) (time.Time, bool) {
	if t.EntryAt != nil {
		return *t.EntryAt, true
	}
	if t.CreatedAt != nil {
		return *t.CreatedAt, true
	}
	return time.Time{}, false
}

// FilterRecentDays keeps trades whose resolved date falls within the
// trailing window of the given number of calendar days before now.
// Trades without a resolved date are dropped. The cutoff subtracts
// whole calendar days, not a fixed duration, so it follows the local
// calendar across DST changes.
func FilterRecentDays(trades []models.Trade, days int, now time.Time) []models.Trade {
	from := now.AddDate(0, 0, -days)

	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		date, ok := TradeDate(t)
		if ok && !date.Before(from) {
			out = append(out, t)
		}
	}
	return out
}

// sortKey returns the instant used for chronological comparison.
// Trades without a resolved date compare as the Unix epoch, which puts
// them at the head of an ascending ordering. That placement is a
// documented default, not a business rule; the epoch never leaks out
// of the comparators here.
func sortKey(t models.Trade) time.Time {
	date, ok := TradeDate(t)
	if !ok {
		return time.Unix(0, 0)
	}
	return date
}

// SortByDateAsc returns a new slice ordered by resolved date, oldest
// first. The sort is stable: ties keep their relative input order.
func SortByDateAsc(trades []models.Trade) []models.Trade {
	sorted := append([]models.Trade(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i]).Before(sortKey(sorted[j]))
	})
	return sorted
}

// SortByDateDesc returns a new slice ordered by resolved date, newest
// first.
func SortByDateDesc(trades []models.Trade) []models.Trade {
	sorted := append([]models.Trade(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[j]).Before(sortKey(sorted[i]))
	})
	return sorted
}
