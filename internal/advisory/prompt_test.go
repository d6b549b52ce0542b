package advisory

import (
	"strings"
	"testing"
	"time"

	"farmbook/internal/core"
)

func TestBuildBriefing(t *testing.T) {
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	settings := core.DefaultSettings()
	settings.FarmName = "Hilltop"

	txs := []core.Transaction{
		{Kind: core.Income, Amount: core.Money{Cents: 100000}, Date: core.NewDate(2024, 4, 18),
			Description: "grain sale", Category: "Crop Sales"},
		{Kind: core.Expense, Amount: core.Money{Cents: 20000}, Date: core.NewDate(2024, 4, 1),
			Description: "diesel", Category: "Fuel"},
	}
	crops := []core.Crop{
		{ID: "c1", Name: "Barley", PlantingDate: core.NewDate(2023, 10, 1),
			EstimatedHarvestDate: core.NewDate(2024, 4, 28), Area: 10, AreaUnit: core.Acres},
	}
	todos := []core.Todo{
		{ID: "t1", Task: "grease baler"},
		{ID: "t2", Task: "done already", Completed: true},
	}

	got := BuildBriefing(settings, txs, crops, todos, now)

	for _, want := range []string{
		"Farm: Hilltop",
		"Date: 2024-04-20",
		"Last 7 days: income $1,000.00, expenses $0.00",
		"Last 30 days: income $1,000.00, expenses $200.00",
		"- harvest: Barley (2024-04-28)",
		"- task: grease baler",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("briefing missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "done already") {
		t.Errorf("completed todo should be excluded:\n%s", got)
	}
}

func TestBuildBriefingNoEvents(t *testing.T) {
	now := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
	got := BuildBriefing(core.DefaultSettings(), nil, nil, nil, now)
	if !strings.Contains(got, "No harvests or tasks due in the next 14 days.") {
		t.Errorf("expected empty-schedule line:\n%s", got)
	}
}
