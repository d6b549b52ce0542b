package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"farmbook/internal/core"
	"farmbook/internal/report"
)

// Section titles and order are part of the export contract; consumers
// round-trip on them.
var (
	incomeHeader    = []string{"Date", "Description", "Category", "Crop", "Amount"}
	expenseHeader   = []string{"Date", "Description", "Category", "Crop", "Amount"}
	cropHeader      = []string{"Name", "Planting Date", "Estimated Harvest", "Actual Harvest", "Area", "Income", "Expenses", "Profit"}
	equipmentHeader = []string{"Name", "Purchase Date", "Model", "Maintenance Cost", "Last Maintenance"}
)

// BuildExport produces the delimited export document: four fixed sections
// (Income Transactions, Expense Transactions, Crop Summary, Equipment
// Summary), each a single-line title, a header row and data rows, separated
// by one blank line. Output is UTF-8, comma-separated, LF line endings.
// Fields containing delimiters, quotes or newlines are quoted with embedded
// quotes doubled (encoding/csv semantics).
//
// An inverted range (start after end) is treated as an empty range: every
// section is present with its header but no data rows.
func BuildExport(txs []core.Transaction, crops []core.Crop, equipment []core.Equipment, start, end core.Date) []byte {
	empty := start.Time.After(end.Time)

	inRange := func(d core.Date) bool {
		return !empty && d.OnOrAfter(start) && d.OnOrBefore(end)
	}

	cropNames := make(map[string]string, len(crops))
	for _, c := range crops {
		cropNames[c.ID] = c.Name
	}
	cropLabel := func(id string) string {
		if id == "" {
			return ""
		}
		if name, ok := cropNames[id]; ok {
			return name
		}
		// Dangling reference: the crop was deleted after linking.
		return "N/A"
	}

	var rangeTxs []core.Transaction
	for _, tx := range txs {
		if inRange(tx.Date) {
			rangeTxs = append(rangeTxs, tx)
		}
	}

	var buf bytes.Buffer

	writeSection := func(title string, header []string, rows [][]string, last bool) {
		buf.WriteString(title)
		buf.WriteByte('\n')
		w := csv.NewWriter(&buf)
		_ = w.Write(header)
		for _, r := range rows {
			_ = w.Write(r)
		}
		w.Flush()
		if !last {
			buf.WriteByte('\n')
		}
	}

	txRows := func(kind core.TransactionKind) [][]string {
		var rows [][]string
		for _, tx := range rangeTxs {
			if tx.Kind != kind {
				continue
			}
			rows = append(rows, []string{
				tx.Date.String(),
				tx.Description,
				tx.Category,
				cropLabel(tx.CropID),
				tx.Amount.Decimal(),
			})
		}
		return rows
	}

	var cropRows [][]string
	if !empty {
		for _, c := range crops {
			summary := report.CropProfit(c.ID, rangeTxs)
			cropRows = append(cropRows, []string{
				c.Name,
				c.PlantingDate.String(),
				c.EstimatedHarvestDate.String(),
				c.ActualHarvestDate.String(),
				formatArea(c.Area, c.AreaUnit),
				summary.Income.Decimal(),
				summary.Expenses.Decimal(),
				summary.Profit().Decimal(),
			})
		}
	}

	var eqRows [][]string
	if !empty {
		for _, eq := range equipment {
			last := ""
			if l, ok := report.MostRecentLog(eq); ok {
				last = l.Date.String()
			}
			eqRows = append(eqRows, []string{
				eq.Name,
				eq.PurchaseDate.String(),
				eq.Model,
				report.MaintenanceCost(eq).Decimal(),
				last,
			})
		}
	}

	writeSection("Income Transactions", incomeHeader, txRows(core.Income), false)
	writeSection("Expense Transactions", expenseHeader, txRows(core.Expense), false)
	writeSection("Crop Summary", cropHeader, cropRows, false)
	writeSection("Equipment Summary", equipmentHeader, eqRows, true)

	return buf.Bytes()
}

func formatArea(area float64, unit core.AreaUnit) string {
	return strconv.FormatFloat(area, 'f', -1, 64) + " " + string(unit)
}
