package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/report"
)

const (
	defaultSeriesMonths = 6
	maxSeriesMonths     = 24
	upcomingHorizonDays = 30
)

type changeView struct {
	Trend   report.Trend `json:"trend"`
	Percent float64      `json:"percent"`
}

type monthBucketView struct {
	Label    string     `json:"label"`
	Year     int        `json:"year"`
	Month    int        `json:"month"`
	Income   core.Money `json:"income"`
	Expenses core.Money `json:"expenses"`
}

type categoryView struct {
	Name   string     `json:"name"`
	Amount core.Money `json:"amount"`
}

type eventView struct {
	Kind  report.EventKind `json:"kind"`
	Date  core.Date        `json:"date"`
	Title string           `json:"title"`
	RefID string           `json:"refId"`
}

type periodView struct {
	Income   core.Money `json:"income"`
	Expenses core.Money `json:"expenses"`
	Net      core.Money `json:"net"`
}

func periodOf(p report.PeriodSummary) periodView {
	return periodView{Income: p.Income, Expenses: p.Expenses, Net: p.Net()}
}

type dashboardResponse struct {
	Month             periodView        `json:"month"`
	IncomeChange      changeView        `json:"incomeChange"`
	ExpenseChange     changeView        `json:"expenseChange"`
	MonthlySeries     []monthBucketView `json:"monthlySeries"`
	IncomeByCategory  []categoryView    `json:"incomeByCategory"`
	ExpenseByCategory []categoryView    `json:"expenseByCategory"`
	UpcomingEvents    []eventView       `json:"upcomingEvents"`
	Last7Days         periodView        `json:"last7Days"`
	Last30Days        periodView        `json:"last30Days"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}

	months := defaultSeriesMonths
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSeriesMonths {
			BadRequestError("months must be between 1 and 24").Write(w)
			return
		}
		months = n
	}

	cacheKey := "dashboard:" + strconv.Itoa(months)
	if cached, ok := s.dashCache.Get(cacheKey); ok {
		NewResponse().JSON(cached).Write(w)
		return
	}

	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		storeError(err).Write(w)
		return
	}
	crops, err := s.store.ListCrops(r.Context())
	if err != nil {
		storeError(err).Write(w)
		return
	}
	todos, err := s.store.ListTodos(r.Context())
	if err != nil {
		storeError(err).Write(w)
		return
	}

	now := time.Now()
	resp := buildDashboard(txs, crops, todos, now, months)

	s.dashCache.Set(cacheKey, resp)
	NewResponse().JSON(resp).Write(w)
}

// buildDashboard aggregates the dashboard view from a domain snapshot at now.
func buildDashboard(txs []core.Transaction, crops []core.Crop, todos []core.Todo, now time.Time, months int) dashboardResponse {
	monthStart := core.NewDate(now.Year(), int(now.Month()), 1)
	monthEnd := core.DateOf(monthStart.AddDate(0, 1, -1))
	prevStart := core.DateOf(monthStart.AddDate(0, -1, 0))
	prevEnd := core.DateOf(monthStart.AddDate(0, 0, -1))

	current := report.PeriodTotals(txs, monthStart, monthEnd)
	previous := report.PeriodTotals(txs, prevStart, prevEnd)

	incomeChange := report.Change(previous.Income, current.Income)
	expenseChange := report.Change(previous.Expenses, current.Expenses)

	series := report.MonthlySeries(txs, now, months)
	seriesViews := make([]monthBucketView, 0, len(series))
	for _, b := range series {
		seriesViews = append(seriesViews, monthBucketView{
			Label:    b.Label(),
			Year:     b.Year,
			Month:    b.Month,
			Income:   b.Income,
			Expenses: b.Expenses,
		})
	}

	incomeCats := categoryViews(report.CategoryBreakdown(txs, core.Income, now.Year()))
	expenseCats := categoryViews(report.CategoryBreakdown(txs, core.Expense, now.Year()))

	events := report.UpcomingEvents(crops, todos, now, upcomingHorizonDays)
	eventViews := make([]eventView, 0, len(events))
	for _, e := range events {
		eventViews = append(eventViews, eventView{Kind: e.Kind, Date: e.Date, Title: e.Title, RefID: e.RefID})
	}

	return dashboardResponse{
		Month:             periodOf(current),
		IncomeChange:      changeView{Trend: incomeChange.Trend, Percent: incomeChange.Percent},
		ExpenseChange:     changeView{Trend: expenseChange.Trend, Percent: expenseChange.Percent},
		MonthlySeries:     seriesViews,
		IncomeByCategory:  incomeCats,
		ExpenseByCategory: expenseCats,
		UpcomingEvents:    eventViews,
		Last7Days:         periodOf(report.RollingTotals(txs, now, 7)),
		Last30Days:        periodOf(report.RollingTotals(txs, now, 30)),
	}
}

func categoryViews(in []report.CategoryAmount) []categoryView {
	out := make([]categoryView, 0, len(in))
	for _, c := range in {
		out = append(out, categoryView{Name: c.Name, Amount: c.Amount})
	}
	return out
}
