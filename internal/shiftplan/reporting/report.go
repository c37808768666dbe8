package reporting

import (
	"fmt"
	"time"

	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
)

// Category tags one entry of the hours timeline. The order of the constants
// is the summation order for entries on the same day.
type Category int

const (
	CategoryShiftplan Category = iota
	CategoryExtraWork
	CategoryVacation
	CategorySickLeave
	CategoryHoliday
	CategoryUnavailable
	CategoryCustom
)

var categoryNames = [...]string{"shiftplan", "extra_work", "vacation", "sick_leave", "holiday", "unavailable", "custom"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText encodes the category name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func categoryOf(c domain.ExtraHoursCategory) (Category, error) {
	switch c {
	case domain.CategoryExtraWork:
		return CategoryExtraWork, nil
	case domain.CategoryVacation:
		return CategoryVacation, nil
	case domain.CategorySickLeave:
		return CategorySickLeave, nil
	case domain.CategoryHoliday:
		return CategoryHoliday, nil
	case domain.CategoryUnavailable:
		return CategoryUnavailable, nil
	case domain.CategoryCustom:
		return CategoryCustom, nil
	}
	return 0, fmt.Errorf("unknown extra hours category %q", c)
}

// WorkingHoursDay is one entry of the timeline.
type WorkingHoursDay struct {
	Date       time.Time `json:"date"`
	Hours      float32   `json:"hours"`
	Category   Category  `json:"category"`
	CustomName string    `json:"custom_name,omitempty"`
}

// CustomExtraHours totals one custom category.
type CustomExtraHours struct {
	Name  string  `json:"name"`
	Hours float32 `json:"hours"`
}

// Totals are the per category sums of a window or bucket.
type Totals struct {
	ExpectedHours    float32            `json:"expected_hours"`
	OverallHours     float32            `json:"overall_hours"`
	BalanceHours     float32            `json:"balance_hours"`
	ShiftplanHours   float32            `json:"shiftplan_hours"`
	ExtraWorkHours   float32            `json:"extra_work_hours"`
	VacationHours    float32            `json:"vacation_hours"`
	SickLeaveHours   float32            `json:"sick_leave_hours"`
	HolidayHours     float32            `json:"holiday_hours"`
	UnavailableHours float32            `json:"unavailable_hours"`
	CustomExtraHours []CustomExtraHours `json:"custom_extra_hours,omitempty"`

	VacationDays  float32 `json:"vacation_days"`
	SickLeaveDays float32 `json:"sick_leave_days"`
	HolidayDays   float32 `json:"holiday_days"`
	AbsenceDays   float32 `json:"absence_days"`
}

// CustomHours returns the total of the named custom category.
func (t *Totals) CustomHours(name string) float32 {
	for _, c := range t.CustomExtraHours {
		if c.Name == name {
			return c.Hours
		}
	}
	return 0
}

// GroupedReportHours is one week or month bucket.
type GroupedReportHours struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Year  int       `json:"year"`
	Week  int       `json:"week,omitempty"`
	Month int       `json:"month,omitempty"`
	// ContractWeeklyHours is set on week buckets only.
	ContractWeeklyHours float32 `json:"contract_weekly_hours,omitempty"`
	Totals
	Days []WorkingHoursDay `json:"days"`
}

// EmployeeReport is the full report of one sales person over a window.
type EmployeeReport struct {
	SalesPerson domain.SalesPerson `json:"sales_person"`
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	Totals
	CarryoverHours      float32              `json:"carryover_hours"`
	VacationCarryover   int                  `json:"vacation_carryover"`
	VacationEntitlement float32              `json:"vacation_entitlement"`
	ByWeek              []GroupedReportHours `json:"by_week"`
	ByMonth             []GroupedReportHours `json:"by_month"`
}

// ShortEmployeeReport is the balance summary of one sales person.
type ShortEmployeeReport struct {
	SalesPerson   domain.SalesPerson `json:"sales_person"`
	BalanceHours  float32            `json:"balance_hours"`
	ExpectedHours float32            `json:"expected_hours"`
	OverallHours  float32            `json:"overall_hours"`
}

// Short condenses the report.
func (r *EmployeeReport) Short() ShortEmployeeReport {
	return ShortEmployeeReport{
		SalesPerson:   r.SalesPerson,
		BalanceHours:  r.BalanceHours,
		ExpectedHours: r.ExpectedHours,
		OverallHours:  r.OverallHours,
	}
}
