package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Kind:        Expense,
		Amount:      Money{Cents: 1500},
		Date:        NewDate(2024, 3, 10),
		Description: "diesel for tractor",
		Category:    "Fuel",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"bad kind", func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -1 }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"empty description", func(tx *Transaction) { tx.Description = "  " }, ErrEmptyDescription},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
	}
	for _, tc := range cases {
		tx := valid
		tc.mutate(&tx)
		if err := tx.Validate(); err != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestCropStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)
	crop := Crop{
		Name:                 "Winter Wheat",
		PlantingDate:         NewDate(2024, 3, 1),
		EstimatedHarvestDate: NewDate(2024, 7, 1),
		Area:                 12,
		AreaUnit:             Acres,
	}
	if got := crop.Status(now); got != StatusGrowing {
		t.Fatalf("expected growing, got %s", got)
	}

	crop.EstimatedHarvestDate = NewDate(2024, 6, 1)
	if got := crop.Status(now); got != StatusOverdue {
		t.Fatalf("expected overdue, got %s", got)
	}

	// An estimated harvest on today's calendar day is not yet overdue.
	crop.EstimatedHarvestDate = NewDate(2024, 6, 15)
	if got := crop.Status(now); got != StatusGrowing {
		t.Fatalf("expected growing on harvest day, got %s", got)
	}

	crop.ActualHarvestDate = NewDate(2024, 6, 10)
	if got := crop.Status(now); got != StatusHarvested {
		t.Fatalf("expected harvested, got %s", got)
	}
}

func TestCropNormalizeYield(t *testing.T) {
	c := Crop{YieldAmount: 0, YieldUnit: "bushels"}
	c.Normalize()
	if c.YieldUnit != "" {
		t.Fatalf("yield unit should be cleared when amount is zero, got %q", c.YieldUnit)
	}

	c = Crop{YieldAmount: 40, YieldUnit: "bushels"}
	c.Normalize()
	if c.YieldUnit != "bushels" {
		t.Fatalf("yield unit should be kept, got %q", c.YieldUnit)
	}
}

func TestSettingsHasCategory(t *testing.T) {
	s := DefaultSettings()
	if !s.HasCategory(Income, "Crop Sales") {
		t.Fatal("expected Crop Sales to be an income category")
	}
	if s.HasCategory(Expense, "Crop Sales") {
		t.Fatal("income category must not match expense kind")
	}
	if !s.HasCategory(Expense, "Seeds") {
		t.Fatal("expected Seeds to be an expense category")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Fatalf("got %s", d)
	}
	if _, err := ParseDate("29/02/2024"); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}
