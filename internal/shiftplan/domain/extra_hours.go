package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/pkg/calendar"
)

// ExtraHoursCategory classifies an extra hours entry.
type ExtraHoursCategory string

const (
	CategoryExtraWork   ExtraHoursCategory = "extra_work"
	CategoryVacation    ExtraHoursCategory = "vacation"
	CategorySickLeave   ExtraHoursCategory = "sick_leave"
	CategoryHoliday     ExtraHoursCategory = "holiday"
	CategoryUnavailable ExtraHoursCategory = "unavailable"
	CategoryCustom      ExtraHoursCategory = "custom"
)

// ReportType tells how a category enters the balance.
type ReportType int

const (
	ReportTypeNone ReportType = iota
	ReportTypeWorkingHours
	ReportTypeAbsenceHours
)

// Valid reports whether c is a known category.
func (c ExtraHoursCategory) Valid() bool {
	switch c {
	case CategoryExtraWork, CategoryVacation, CategorySickLeave, CategoryHoliday,
		CategoryUnavailable, CategoryCustom:
		return true
	}
	return false
}

// ReportType maps the category to its report type.
func (c ExtraHoursCategory) ReportType() ReportType {
	switch c {
	case CategoryExtraWork:
		return ReportTypeWorkingHours
	case CategoryVacation, CategorySickLeave, CategoryHoliday:
		return ReportTypeAbsenceHours
	default:
		return ReportTypeNone
	}
}

// ExtraHours is a dated hours entry outside the shift plan.
type ExtraHours struct {
	ID                 uuid.UUID          `json:"id"`
	SalesPersonID      uuid.UUID          `json:"sales_person_id"`
	Amount             float32            `json:"amount"`
	Category           ExtraHoursCategory `json:"category"`
	CustomExtraHoursID *uuid.UUID         `json:"custom_extra_hours_id,omitempty"`
	// CustomName is resolved from the custom definition on read.
	CustomName  string    `json:"custom_name,omitempty"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"date_time"`
	Lifecycle
}

// Date returns the day the entry counts for.
func (e *ExtraHours) Date() time.Time {
	return calendar.Truncate(e.DateTime)
}

// CustomExtraHours names a user defined extra hours category.
type CustomExtraHours struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Lifecycle
}
