package report

import (
	"time"

	"farmbook/internal/core"
)

// RollingTotals sums income and expenses over the trailing `days` calendar
// days ending today, inclusive. This is a rolling-day window, deliberately
// distinct from the calendar-month bucketing used by MonthlySeries; the
// advisory context is built from these windows.
func RollingTotals(txs []core.Transaction, now time.Time, days int) PeriodSummary {
	if days <= 0 {
		return PeriodSummary{}
	}
	end := core.DateOf(now)
	start := core.DateOf(now.AddDate(0, 0, -(days - 1)))
	return PeriodTotals(txs, start, end)
}
