package export

import (
	"strings"

	"farmbook/internal/core"
	"farmbook/internal/report"
)

// BuildPrintableDocument renders the same data as BuildExport into a
// human-readable plain-text summary: the totals block first, then the
// itemized sections. Formatting only; all numbers come from the report
// package.
func BuildPrintableDocument(txs []core.Transaction, crops []core.Crop, equipment []core.Equipment, settings core.Settings, start, end core.Date) string {
	cur := settings.Currency
	totals := report.PeriodTotals(txs, start, end)
	empty := start.Time.After(end.Time)

	var b strings.Builder
	line := func(parts ...string) {
		b.WriteString(strings.Join(parts, ""))
		b.WriteByte('\n')
	}

	line(settings.FarmName, " - Farm Report")
	line("Period: ", start.String(), " to ", end.String())
	line("")
	line("Totals")
	line("  Income:   ", FormatCurrency(totals.Income, cur))
	line("  Expenses: ", FormatCurrency(totals.Expenses, cur))
	line("  Net:      ", FormatCurrency(totals.Net(), cur))
	line("")

	cropNames := make(map[string]string, len(crops))
	for _, c := range crops {
		cropNames[c.ID] = c.Name
	}

	line("Transactions")
	count := 0
	for _, tx := range txs {
		if empty || !tx.Date.OnOrAfter(start) || !tx.Date.OnOrBefore(end) {
			continue
		}
		count++
		label := string(tx.Kind)
		crop := ""
		if tx.CropID != "" {
			name, ok := cropNames[tx.CropID]
			if !ok {
				name = "N/A"
			}
			crop = " [" + name + "]"
		}
		line("  ", tx.Date.String(), "  ", label, "  ", FormatCurrency(tx.Amount, cur), "  ", tx.Description, " (", tx.Category, ")", crop)
	}
	if count == 0 {
		line("  (none)")
	}
	line("")

	line("Crops")
	if empty || len(crops) == 0 {
		line("  (none)")
	} else {
		var rangeTxs []core.Transaction
		for _, tx := range txs {
			if tx.Date.OnOrAfter(start) && tx.Date.OnOrBefore(end) {
				rangeTxs = append(rangeTxs, tx)
			}
		}
		for _, c := range crops {
			s := report.CropProfit(c.ID, rangeTxs)
			line("  ", c.Name, ": profit ", FormatCurrency(s.Profit(), cur),
				" (income ", FormatCurrency(s.Income, cur),
				", expenses ", FormatCurrency(s.Expenses, cur), ")")
		}
	}
	line("")

	line("Equipment")
	if empty || len(equipment) == 0 {
		line("  (none)")
	} else {
		for _, eq := range equipment {
			last := "no maintenance recorded"
			if l, ok := report.MostRecentLog(eq); ok {
				last = "last maintenance " + l.Date.String()
			}
			line("  ", eq.Name, ": maintenance ", FormatCurrency(report.MaintenanceCost(eq), cur), ", ", last)
		}
	}

	return b.String()
}
