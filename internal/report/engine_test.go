package report

import (
	"math/rand"
	"testing"
	"time"

	"farmbook/internal/core"
)

func tx(kind core.TransactionKind, cents int64, y, m, d int) core.Transaction {
	return core.Transaction{
		Kind:        kind,
		Amount:      core.Money{Cents: cents},
		Date:        core.NewDate(y, m, d),
		Description: "t",
		Category:    "c",
	}
}

func TestPeriodTotalsScenario(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, 100000, 2024, 1, 5),
		tx(core.Expense, 20000, 2024, 1, 10),
		tx(core.Income, 50000, 2024, 2, 1),
	}
	got := PeriodTotals(txs, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	if got.Income.Cents != 100000 || got.Expenses.Cents != 20000 {
		t.Fatalf("got income=%d expenses=%d", got.Income.Cents, got.Expenses.Cents)
	}
	if got.Net().Cents != 80000 {
		t.Fatalf("net = %d, want 80000", got.Net().Cents)
	}
}

func TestPeriodTotalsSingleDay(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, 100, 2024, 3, 9),
		tx(core.Income, 200, 2024, 3, 10),
		tx(core.Income, 400, 2024, 3, 11),
	}
	day := core.NewDate(2024, 3, 10)
	got := PeriodTotals(txs, day, day)
	if got.Income.Cents != 200 {
		t.Fatalf("single-day total = %d, want 200", got.Income.Cents)
	}
}

func TestPeriodTotalsInvertedRange(t *testing.T) {
	txs := []core.Transaction{tx(core.Income, 100, 2024, 2, 15)}
	got := PeriodTotals(txs, core.NewDate(2024, 3, 1), core.NewDate(2024, 2, 1))
	if got.Income.Cents != 0 || got.Expenses.Cents != 0 {
		t.Fatalf("inverted range must be empty, got %+v", got)
	}
}

func TestPeriodTotalsEmptyCollection(t *testing.T) {
	got := PeriodTotals(nil, core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31))
	if got.Income.Cents != 0 || got.Expenses.Cents != 0 || got.Net().Cents != 0 {
		t.Fatalf("empty collection must give zero totals, got %+v", got)
	}
}

func TestPeriodTotalsOrderIndependent(t *testing.T) {
	base := []core.Transaction{
		tx(core.Income, 111, 2024, 5, 1),
		tx(core.Expense, 222, 2024, 5, 2),
		tx(core.Income, 333, 2024, 5, 3),
		tx(core.Expense, 444, 2024, 5, 4),
		tx(core.Income, 555, 2024, 5, 5),
	}
	start, end := core.NewDate(2024, 5, 1), core.NewDate(2024, 5, 31)
	want := PeriodTotals(base, start, end)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]core.Transaction(nil), base...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := PeriodTotals(shuffled, start, end); got != want {
			t.Fatalf("order-dependent result: got %+v, want %+v", got, want)
		}
	}
}

func TestMonthlySeriesShape(t *testing.T) {
	now := time.Date(2024, 4, 20, 10, 0, 0, 0, time.UTC)
	buckets := MonthlySeries(nil, now, 12)
	if len(buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(buckets))
	}
	if buckets[0].Year != 2023 || buckets[0].Month != 5 {
		t.Fatalf("oldest bucket = %d-%d, want 2023-5", buckets[0].Year, buckets[0].Month)
	}
	if buckets[11].Year != 2024 || buckets[11].Month != 4 {
		t.Fatalf("newest bucket = %d-%d, want 2024-4", buckets[11].Year, buckets[11].Month)
	}
	for i := 1; i < len(buckets); i++ {
		prev, cur := buckets[i-1], buckets[i]
		wantY, wantM := prev.Year, prev.Month+1
		if wantM > 12 {
			wantY, wantM = wantY+1, 1
		}
		if cur.Year != wantY || cur.Month != wantM {
			t.Fatalf("bucket %d not consecutive: %d-%d after %d-%d", i, cur.Year, cur.Month, prev.Year, prev.Month)
		}
	}
}

// Every in-window transaction lands in exactly one bucket, and the bucket
// income sums add up to the window's total income.
func TestMonthlySeriesPartition(t *testing.T) {
	now := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(core.Income, 100, 2024, 6, 1),
		tx(core.Income, 200, 2024, 5, 31),
		tx(core.Income, 400, 2024, 1, 15),
		tx(core.Income, 800, 2023, 7, 1),  // oldest in a 12-month window
		tx(core.Income, 1600, 2023, 6, 1), // outside the window
		tx(core.Expense, 50, 2024, 6, 1),
	}
	buckets := MonthlySeries(txs, now, 12)

	var bucketIncome int64
	for _, b := range buckets {
		bucketIncome += b.Income.Cents
	}

	start := core.NewDate(2023, 7, 1)
	end := core.NewDate(2024, 6, 30)
	window := PeriodTotals(txs, start, end)
	if bucketIncome != window.Income.Cents {
		t.Fatalf("bucket income sum %d != window income %d", bucketIncome, window.Income.Cents)
	}
	if bucketIncome != 100+200+400+800 {
		t.Fatalf("bucket income sum = %d", bucketIncome)
	}

	// Exactly-one-bucket: count placements per transaction month.
	for _, wanted := range []struct {
		y, m  int
		cents int64
	}{{2024, 6, 100}, {2024, 5, 200}, {2024, 1, 400}, {2023, 7, 800}} {
		var found int64
		for _, b := range buckets {
			if b.Year == wanted.y && b.Month == wanted.m {
				found = b.Income.Cents
			}
		}
		if found != wanted.cents {
			t.Fatalf("bucket %d-%d income = %d, want %d", wanted.y, wanted.m, found, wanted.cents)
		}
	}
}

func TestMonthlySeriesIdempotent(t *testing.T) {
	now := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(core.Income, 100, 2024, 6, 1),
		tx(core.Expense, 40, 2024, 5, 12),
	}
	a := MonthlySeries(txs, now, 6)
	b := MonthlySeries(txs, now, 6)
	if len(a) != len(b) {
		t.Fatal("length differs between calls")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bucket %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []core.Transaction{
		{Kind: core.Expense, Amount: core.Money{Cents: 300}, Date: core.NewDate(2024, 2, 1), Description: "x", Category: "Fuel"},
		{Kind: core.Expense, Amount: core.Money{Cents: 700}, Date: core.NewDate(2024, 8, 1), Description: "x", Category: "Fuel"},
		{Kind: core.Expense, Amount: core.Money{Cents: 500}, Date: core.NewDate(2024, 3, 1), Description: "x", Category: "Seeds"},
		{Kind: core.Expense, Amount: core.Money{Cents: 900}, Date: core.NewDate(2023, 3, 1), Description: "x", Category: "Labor"}, // wrong year
		{Kind: core.Income, Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 3, 1), Description: "x", Category: "Crop Sales"},
	}
	got := CategoryBreakdown(txs, core.Expense, 2024)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d: %+v", len(got), got)
	}
	if got[0].Name != "Fuel" || got[0].Amount.Cents != 1000 {
		t.Fatalf("first entry = %+v", got[0])
	}
	if got[1].Name != "Seeds" || got[1].Amount.Cents != 500 {
		t.Fatalf("second entry = %+v", got[1])
	}
	for _, ca := range got {
		if ca.Amount.Cents == 0 {
			t.Fatalf("zero-valued category %q must be omitted", ca.Name)
		}
	}
}

func TestCropProfit(t *testing.T) {
	txs := []core.Transaction{
		{Kind: core.Income, Amount: core.Money{Cents: 5000}, Date: core.NewDate(2024, 9, 1), Description: "x", Category: "Crop Sales", CropID: "c1"},
		{Kind: core.Expense, Amount: core.Money{Cents: 1200}, Date: core.NewDate(2024, 4, 1), Description: "x", Category: "Seeds", CropID: "c1"},
		{Kind: core.Expense, Amount: core.Money{Cents: 9999}, Date: core.NewDate(2024, 4, 1), Description: "x", Category: "Fuel"}, // unlinked
	}
	got := CropProfit("c1", txs)
	if got.Income.Cents != 5000 || got.Expenses.Cents != 1200 || got.Profit().Cents != 3800 {
		t.Fatalf("got %+v profit=%d", got, got.Profit().Cents)
	}

	empty := CropProfit("c2", txs)
	if empty.Income.Cents != 0 || empty.Expenses.Cents != 0 || empty.Profit().Cents != 0 {
		t.Fatalf("crop with no linked transactions must be all zero, got %+v", empty)
	}
}

func TestMaintenanceCost(t *testing.T) {
	eq := core.Equipment{
		Name:         "Tractor",
		PurchaseDate: core.NewDate(2020, 1, 1),
		MaintenanceLogs: []core.MaintenanceLog{
			{ID: "m1", Date: core.NewDate(2024, 1, 10), Description: "oil change", Cost: core.Money{Cents: 5000}},
			{ID: "m2", Date: core.NewDate(2024, 3, 2), Description: "tires", Cost: core.Money{Cents: 7500}},
		},
	}
	if got := MaintenanceCost(eq); got.Cents != 12500 {
		t.Fatalf("maintenance cost = %d, want 12500", got.Cents)
	}
	latest, ok := MostRecentLog(eq)
	if !ok || latest.ID != "m2" {
		t.Fatalf("most recent log = %+v ok=%v", latest, ok)
	}

	_, ok = MostRecentLog(core.Equipment{})
	if ok {
		t.Fatal("equipment without logs must report no recent log")
	}
}

func TestUpcomingEvents(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	crops := []core.Crop{
		{ID: "a", Name: "Corn", EstimatedHarvestDate: core.NewDate(2024, 6, 20)},
		{ID: "b", Name: "Barley", EstimatedHarvestDate: core.NewDate(2024, 6, 5)},
		{ID: "c", Name: "Soy", EstimatedHarvestDate: core.NewDate(2024, 8, 1)},                                           // past horizon
		{ID: "d", Name: "Oats", EstimatedHarvestDate: core.NewDate(2024, 6, 10), ActualHarvestDate: core.NewDate(2024, 6, 9)}, // harvested
	}
	todos := []core.Todo{
		{ID: "t1", Task: "fix fence", Completed: false},
		{ID: "t2", Task: "order seed", Completed: true},
	}
	events := UpcomingEvents(crops, todos, now, 30)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}
	if events[0].RefID != "b" || events[1].RefID != "a" {
		t.Fatalf("harvests not sorted ascending: %+v", events[:2])
	}
	if events[2].Kind != EventTodo || events[2].RefID != "t1" {
		t.Fatalf("expected pending todo last, got %+v", events[2])
	}
}

func TestChange(t *testing.T) {
	cases := []struct {
		prev, cur int64
		trend     Trend
		pct       float64
	}{
		{0, 30000, TrendNew, 0},
		{0, 0, TrendNone, 0},
		{10000, 15000, TrendPercent, 50},
		{10000, 5000, TrendPercent, -50},
		{10000, 0, TrendPercent, -100},
	}
	for _, tc := range cases {
		got := Change(core.Money{Cents: tc.prev}, core.Money{Cents: tc.cur})
		if got.Trend != tc.trend {
			t.Fatalf("Change(%d, %d) trend = %s, want %s", tc.prev, tc.cur, got.Trend, tc.trend)
		}
		if tc.trend == TrendPercent && got.Percent != tc.pct {
			t.Fatalf("Change(%d, %d) pct = %f, want %f", tc.prev, tc.cur, got.Percent, tc.pct)
		}
	}
}

func TestRollingTotals(t *testing.T) {
	now := time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(core.Expense, 100, 2024, 6, 10), // today
		tx(core.Expense, 200, 2024, 6, 4),  // 6 days ago, inside a 7-day window
		tx(core.Expense, 400, 2024, 6, 3),  // 7 days ago, outside
	}
	got := RollingTotals(txs, now, 7)
	if got.Expenses.Cents != 300 {
		t.Fatalf("7-day rolling expenses = %d, want 300", got.Expenses.Cents)
	}
	if got := RollingTotals(txs, now, 0); got.Expenses.Cents != 0 {
		t.Fatalf("zero-day window must be empty")
	}
}
