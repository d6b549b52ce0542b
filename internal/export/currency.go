// Package export renders aggregation output into display strings, a
// delimited export document and a printable summary. It adds no derivation
// logic of its own.
package export

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"farmbook/internal/core"
)

// printer is pinned to a single locale so formatting is deterministic across
// environments.
var printer = message.NewPrinter(language.English)

// FormatCurrency renders an amount with the symbol of the given ISO 4217
// currency code and exactly two minor-unit decimals, e.g. "$1,234.50".
// Unknown codes fall back to USD; there is never any conversion.
func FormatCurrency(m core.Money, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	sym := printer.Sprintf("%v", currency.Symbol(unit))

	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := printer.Sprintf("%v.%02d", number.Decimal(cents/100), cents%100)
	if neg {
		return "-" + sym + s
	}
	return sym + s
}
