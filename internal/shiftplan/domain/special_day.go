package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/pkg/calendar"
)

// SpecialDayType distinguishes full holidays from shortened days.
type SpecialDayType string

const (
	SpecialDayHoliday  SpecialDayType = "holiday"
	SpecialDayShortDay SpecialDayType = "short_day"
)

// SpecialDay marks one ISO week date as holiday or short day.
type SpecialDay struct {
	ID           uuid.UUID           `json:"id"`
	Year         int                 `json:"year"`
	CalendarWeek int                 `json:"calendar_week"`
	DayOfWeek    calendar.DayOfWeek  `json:"day_of_week"`
	DayType      SpecialDayType      `json:"day_type"`
	TimeOfDay    *calendar.TimeOfDay `json:"time_of_day,omitempty"`
	Lifecycle
}

// Date converts the week date to a calendar date.
func (s *SpecialDay) Date() (time.Time, error) {
	return calendar.WeekDateToDate(s.Year, s.CalendarWeek, s.DayOfWeek)
}

// ShiftplanReportDay is the booked hours of one sales person on one day,
// aggregated from bookings joined to their slots.
type ShiftplanReportDay struct {
	SalesPersonID uuid.UUID          `json:"sales_person_id"`
	Hours         float32            `json:"hours"`
	Year          int                `json:"year"`
	CalendarWeek  int                `json:"calendar_week"`
	DayOfWeek     calendar.DayOfWeek `json:"day_of_week"`
}

// Date converts the week date to a calendar date.
func (d *ShiftplanReportDay) Date() (time.Time, error) {
	return calendar.WeekDateToDate(d.Year, d.CalendarWeek, d.DayOfWeek)
}

// Carryover is the balance a sales person takes from one year into the next.
// It is keyed by (SalesPersonID, Year) and upserted.
type Carryover struct {
	SalesPersonID  uuid.UUID `json:"sales_person_id"`
	Year           int       `json:"year"`
	CarryoverHours float32   `json:"carryover_hours"`
	Vacation       int       `json:"vacation"`
	Lifecycle
}
