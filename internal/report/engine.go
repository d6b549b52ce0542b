// Package report derives financial summaries from domain snapshots.
//
// Every function here is pure: it receives the collections it needs as
// parameters, never mutates them, and returns plain values. Calling any of
// them twice with the same snapshot yields identical output.
package report

import (
	"sort"
	"time"

	"farmbook/internal/core"
)

// PeriodSummary holds income and expense totals for a date range.
type PeriodSummary struct {
	Income   core.Money
	Expenses core.Money
}

// Net returns income minus expenses.
func (p PeriodSummary) Net() core.Money {
	return p.Income.Sub(p.Expenses)
}

// MonthBucket is one calendar month of the trailing series.
type MonthBucket struct {
	Year     int
	Month    int // 1-12
	Income   core.Money
	Expenses core.Money
}

// Label renders the bucket as "Jan 2024".
func (b MonthBucket) Label() string {
	return time.Month(b.Month).String()[:3] + " " + time.Date(b.Year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount core.Money
}

// CropSummary holds the linked-transaction totals for one crop.
type CropSummary struct {
	CropID   string
	Income   core.Money
	Expenses core.Money
}

// Profit returns income minus expenses for the crop.
func (c CropSummary) Profit() core.Money {
	return c.Income.Sub(c.Expenses)
}

// PeriodTotals sums transaction amounts by kind over [start, end]. Both
// bounds are whole calendar days: a transaction dated on the end day counts.
// An inverted range yields zero totals rather than an error.
func PeriodTotals(txs []core.Transaction, start, end core.Date) PeriodSummary {
	var out PeriodSummary
	if start.Time.After(end.Time) {
		return out
	}
	for _, tx := range txs {
		if !tx.Date.OnOrAfter(start) || !tx.Date.OnOrBefore(end) {
			continue
		}
		switch tx.Kind {
		case core.Income:
			out.Income = out.Income.Add(tx.Amount)
		case core.Expense:
			out.Expenses = out.Expenses.Add(tx.Amount)
		}
	}
	return out
}

// MonthlySeries produces n consecutive calendar-month buckets ending at the
// month containing now, oldest first. Bucketing is by calendar year+month
// equality, not a rolling window; transactions outside the trailing months
// are excluded.
func MonthlySeries(txs []core.Transaction, now time.Time, n int) []MonthBucket {
	if n <= 0 {
		return nil
	}
	buckets := make([]MonthBucket, n)
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		m := anchor.AddDate(0, i-(n-1), 0)
		buckets[i] = MonthBucket{Year: m.Year(), Month: int(m.Month())}
	}
	index := make(map[[2]int]int, n)
	for i, b := range buckets {
		index[[2]int{b.Year, b.Month}] = i
	}
	for _, tx := range txs {
		i, ok := index[[2]int{tx.Date.Year(), tx.Date.Month()}]
		if !ok {
			continue
		}
		switch tx.Kind {
		case core.Income:
			buckets[i].Income = buckets[i].Income.Add(tx.Amount)
		case core.Expense:
			buckets[i].Expenses = buckets[i].Expenses.Add(tx.Amount)
		}
	}
	return buckets
}

// CategoryBreakdown groups amount sums by category for transactions of the
// given kind within the calendar year. Categories with no matching
// transactions are omitted. Results are ordered by descending amount, ties
// broken by name, so output is deterministic.
func CategoryBreakdown(txs []core.Transaction, kind core.TransactionKind, year int) []CategoryAmount {
	sums := make(map[string]int64)
	for _, tx := range txs {
		if tx.Kind != kind || tx.Date.Year() != year {
			continue
		}
		sums[tx.Category] += tx.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CropProfit sums linked-transaction income and expenses for a crop.
// Transactions without a matching CropID are excluded; a crop with no linked
// transactions yields all-zero totals.
func CropProfit(cropID string, txs []core.Transaction) CropSummary {
	out := CropSummary{CropID: cropID}
	for _, tx := range txs {
		if tx.CropID != cropID || cropID == "" {
			continue
		}
		switch tx.Kind {
		case core.Income:
			out.Income = out.Income.Add(tx.Amount)
		case core.Expense:
			out.Expenses = out.Expenses.Add(tx.Amount)
		}
	}
	return out
}

// MaintenanceCost sums the cost of all maintenance logs for the equipment.
func MaintenanceCost(eq core.Equipment) core.Money {
	var total core.Money
	for _, l := range eq.MaintenanceLogs {
		total = total.Add(l.Cost)
	}
	return total
}

// MostRecentLog returns the log with the maximum date, or false when the
// equipment has no logs.
func MostRecentLog(eq core.Equipment) (core.MaintenanceLog, bool) {
	if len(eq.MaintenanceLogs) == 0 {
		return core.MaintenanceLog{}, false
	}
	latest := eq.MaintenanceLogs[0]
	for _, l := range eq.MaintenanceLogs[1:] {
		if l.Date.Time.After(latest.Date.Time) {
			latest = l
		}
	}
	return latest, true
}
