package advisory

import (
	"strings"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/export"
	"farmbook/internal/report"
)

// BuildBriefing renders the farm's recent activity as plain text suitable as
// model context. It covers 7 and 30 day ledger totals and the next two weeks
// of field work.
func BuildBriefing(settings core.Settings, txs []core.Transaction, crops []core.Crop, todos []core.Todo, now time.Time) string {
	var b strings.Builder

	b.WriteString("Farm: " + settings.FarmName + "\n")
	b.WriteString("Date: " + core.DateOf(now).String() + "\n\n")

	week := report.RollingTotals(txs, now, 7)
	month := report.RollingTotals(txs, now, 30)

	b.WriteString("Last 7 days: income " + export.FormatCurrency(week.Income, settings.Currency) +
		", expenses " + export.FormatCurrency(week.Expenses, settings.Currency) +
		", net " + export.FormatCurrency(week.Net(), settings.Currency) + "\n")
	b.WriteString("Last 30 days: income " + export.FormatCurrency(month.Income, settings.Currency) +
		", expenses " + export.FormatCurrency(month.Expenses, settings.Currency) +
		", net " + export.FormatCurrency(month.Net(), settings.Currency) + "\n\n")

	events := report.UpcomingEvents(crops, todos, now, 14)
	if len(events) == 0 {
		b.WriteString("No harvests or tasks due in the next 14 days.\n")
		return b.String()
	}

	b.WriteString("Due in the next 14 days:\n")
	for _, ev := range events {
		switch ev.Kind {
		case report.EventHarvest:
			b.WriteString("- harvest: " + ev.Title + " (" + ev.Date.String() + ")\n")
		case report.EventTodo:
			b.WriteString("- task: " + ev.Title + "\n")
		}
	}
	return b.String()
}
