package report

import "farmbook/internal/core"

const (
	// TrendPercent carries a valid Percent value.
	TrendPercent Trend = "percent"
	// TrendNew marks activity appearing where the previous period had none.
	TrendNew Trend = "new"
	// TrendNone means both periods were zero.
	TrendNone Trend = "none"
)

type Trend string

// ChangeIndicator describes how a value moved between two periods. A zero
// previous period never produces a percentage, so no Inf or NaN can surface.
type ChangeIndicator struct {
	Trend   Trend
	Percent float64 // meaningful only when Trend == TrendPercent
}

// Change compares a current amount against the previous period's amount.
func Change(previous, current core.Money) ChangeIndicator {
	switch {
	case previous.Cents == 0 && current.Cents == 0:
		return ChangeIndicator{Trend: TrendNone}
	case previous.Cents == 0:
		return ChangeIndicator{Trend: TrendNew}
	default:
		pct := float64(current.Cents-previous.Cents) / float64(previous.Cents) * 100
		return ChangeIndicator{Trend: TrendPercent, Percent: pct}
	}
}
