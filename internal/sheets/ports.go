package sheets

import (
	"context"
)

// Ports for outbound adapters.
type (
	// ReportWriter appends a titled block of report rows to an external sheet.
	ReportWriter interface {
		AppendReport(ctx context.Context, title string, rows [][]string) (ref string, err error)
	}
)
