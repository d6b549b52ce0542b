package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

const (
	Acres    AreaUnit = "acres"
	Hectares AreaUnit = "hectares"
)

// Derived crop statuses. Status is never stored; it is computed from the
// harvest dates relative to a reference instant.
const (
	StatusGrowing   CropStatus = "growing"
	StatusOverdue   CropStatus = "overdue"
	StatusHarvested CropStatus = "harvested"
)

type (
	TransactionKind string
	AreaUnit        string
	CropStatus      string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string          `json:"id"`
		Kind        TransactionKind `json:"kind"`
		Amount      Money           `json:"amount"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		CropID      string          `json:"cropId"` // empty when not linked to a crop
	}

	Crop struct {
		ID                   string   `json:"id"`
		Name                 string   `json:"name"`
		PlantingDate         Date     `json:"plantingDate"`
		EstimatedHarvestDate Date     `json:"estimatedHarvestDate"`
		ActualHarvestDate    Date     `json:"actualHarvestDate"` // zero when not yet harvested
		Area                 float64  `json:"area"`
		AreaUnit             AreaUnit `json:"areaUnit"`
		YieldAmount          float64  `json:"yieldAmount"`
		YieldUnit            string   `json:"yieldUnit"`
		Notes                string   `json:"notes"`
	}

	MaintenanceLog struct {
		ID          string `json:"id"`
		Date        Date   `json:"date"`
		Description string `json:"description"`
		Cost        Money  `json:"cost"`
	}

	Equipment struct {
		ID              string           `json:"id"`
		Name            string           `json:"name"`
		PurchaseDate    Date             `json:"purchaseDate"`
		Model           string           `json:"model"`
		Notes           string           `json:"notes"`
		MaintenanceLogs []MaintenanceLog `json:"maintenanceLogs"`
	}

	Todo struct {
		ID        string `json:"id"`
		Task      string `json:"task"`
		Completed bool   `json:"completed"`
	}

	Notification struct {
		ID        string    `json:"id"`
		Message   string    `json:"message"`
		Timestamp time.Time `json:"timestamp"`
		Read      bool      `json:"read"`
		Seen      bool      `json:"seen"`
		Link      string    `json:"link"`
	}

	Settings struct {
		FarmName          string   `json:"farmName"`
		Currency          string   `json:"currency"` // ISO 4217 code, formatting only
		IncomeCategories  []string `json:"incomeCategories"`
		ExpenseCategories []string `json:"expenseCategories"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidArea      = errors.New("invalid area")
	ErrInvalidAreaUnit  = errors.New("invalid area unit")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyTask        = errors.New("empty task")

	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// NewDate creates a Date at UTC midnight for the given calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty returns true if the date is unset (for optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// SameMonth reports calendar year+month equality.
func (d Date) SameMonth(year, month int) bool {
	return d.Year() == year && d.Month() == month
}

// OnOrAfter compares whole calendar days.
func (d Date) OnOrAfter(o Date) bool { return !d.Time.Before(o.Time) }

// OnOrBefore compares whole calendar days.
func (d Date) OnOrBefore(o Date) bool { return !d.Time.After(o.Time) }

func (k TransactionKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (u AreaUnit) Validate() error {
	switch u {
	case Acres, Hectares:
		return nil
	default:
		return ErrInvalidAreaUnit
	}
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (c Crop) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if err := c.PlantingDate.Validate(); err != nil {
		return fmt.Errorf("planting date: %w", err)
	}
	if err := c.EstimatedHarvestDate.Validate(); err != nil {
		return fmt.Errorf("estimated harvest date: %w", err)
	}
	if c.Area <= 0 {
		return ErrInvalidArea
	}
	if err := c.AreaUnit.Validate(); err != nil {
		return err
	}
	return nil
}

// Status derives the crop lifecycle state at the given instant. Harvested wins
// over overdue; a crop is overdue once its estimated harvest day has passed
// without an actual harvest being recorded.
func (c Crop) Status(now time.Time) CropStatus {
	if !c.ActualHarvestDate.IsEmpty() {
		return StatusHarvested
	}
	if c.EstimatedHarvestDate.Time.Before(DateOf(now).Time) {
		return StatusOverdue
	}
	return StatusGrowing
}

// Normalize enforces the yield invariant: a yield unit is meaningful only
// alongside a yield amount.
func (c *Crop) Normalize() {
	if c.YieldAmount == 0 {
		c.YieldUnit = ""
	}
}

func (l MaintenanceLog) Validate() error {
	if err := l.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(l.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := l.Cost.Validate(); err != nil {
		return err
	}
	return nil
}

func (e Equipment) Validate() error {
	if len(strings.TrimSpace(e.Name)) == 0 {
		return ErrEmptyName
	}
	if err := e.PurchaseDate.Validate(); err != nil {
		return fmt.Errorf("purchase date: %w", err)
	}
	return nil
}

func (t Todo) Validate() error {
	if len(strings.TrimSpace(t.Task)) == 0 {
		return ErrEmptyTask
	}
	return nil
}

// HasCategory reports whether the settings list the category for the given
// transaction kind. Transactions keep their category even after it is removed
// from settings; this check applies only at creation time.
func (s Settings) HasCategory(kind TransactionKind, category string) bool {
	list := s.ExpenseCategories
	if kind == Income {
		list = s.IncomeCategories
	}
	for _, c := range list {
		if c == category {
			return true
		}
	}
	return false
}

// DefaultSettings returns the starting configuration for a new farm.
func DefaultSettings() Settings {
	return Settings{
		FarmName: "My Farm",
		Currency: "USD",
		IncomeCategories: []string{
			"Crop Sales", "Livestock Sales", "Subsidies", "Other Income",
		},
		ExpenseCategories: []string{
			"Seeds", "Fertilizer", "Pesticides", "Fuel", "Labor",
			"Equipment", "Utilities", "Other Expenses",
		},
	}
}
