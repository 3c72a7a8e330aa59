package localstore

import (
	"fmt"
	"time"
)

// DailyActionCounterKey is the single key holding the daily action counter.
const DailyActionCounterKey = "daily-action-counter"

// BookCacheKey returns the cache key for the book of the month covering the
// given instant, e.g. "sudoku_book_2026_August". Months are English names in
// UTC so every device agrees on the period boundary.
func BookCacheKey(now time.Time) string {
	utc := now.UTC()
	return fmt.Sprintf("sudoku_book_%d_%s", utc.Year(), utc.Month().String())
}
