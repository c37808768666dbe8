package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/pkg/calendar"
)

// WorkingHours is an employment contract: weekly expected hours over an
// inclusive range of ISO weeks.
type WorkingHours struct {
	ID              uuid.UUID          `json:"id"`
	SalesPersonID   uuid.UUID          `json:"sales_person_id"`
	ExpectedHours   float32            `json:"expected_hours"`
	FromYear        int                `json:"from_year"`
	FromWeek        int                `json:"from_calendar_week"`
	FromDayOfWeek   calendar.DayOfWeek `json:"from_day_of_week"`
	ToYear          int                `json:"to_year"`
	ToWeek          int                `json:"to_calendar_week"`
	ToDayOfWeek     calendar.DayOfWeek `json:"to_day_of_week"`
	Monday          bool               `json:"monday"`
	Tuesday         bool               `json:"tuesday"`
	Wednesday       bool               `json:"wednesday"`
	Thursday        bool               `json:"thursday"`
	Friday          bool               `json:"friday"`
	Saturday        bool               `json:"saturday"`
	Sunday          bool               `json:"sunday"`
	WorkdaysPerWeek int                `json:"workdays_per_week"`
	VacationDays    int                `json:"vacation_days"`
	Lifecycle
}

// From returns the first contract week.
func (w *WorkingHours) From() calendar.Week {
	return calendar.Week{Year: w.FromYear, Week: w.FromWeek}
}

// To returns the last contract week.
func (w *WorkingHours) To() calendar.Week {
	return calendar.Week{Year: w.ToYear, Week: w.ToWeek}
}

// CoversWeek reports whether week lies in [From, To].
func (w *WorkingHours) CoversWeek(week calendar.Week) bool {
	return w.From().Compare(week) <= 0 && week.Compare(w.To()) <= 0
}

// FromDate returns the first contract day.
func (w *WorkingHours) FromDate() (time.Time, error) {
	return calendar.WeekDateToDate(w.FromYear, w.FromWeek, orDefault(w.FromDayOfWeek, calendar.Monday))
}

// ToDate returns the last contract day.
func (w *WorkingHours) ToDate() (time.Time, error) {
	return calendar.WeekDateToDate(w.ToYear, w.ToWeek, orDefault(w.ToDayOfWeek, calendar.Sunday))
}

// WorksOn reports whether the weekday flag for d is set.
func (w *WorkingHours) WorksOn(d calendar.DayOfWeek) bool {
	switch d {
	case calendar.Monday:
		return w.Monday
	case calendar.Tuesday:
		return w.Tuesday
	case calendar.Wednesday:
		return w.Wednesday
	case calendar.Thursday:
		return w.Thursday
	case calendar.Friday:
		return w.Friday
	case calendar.Saturday:
		return w.Saturday
	case calendar.Sunday:
		return w.Sunday
	}
	return false
}

// WorkdayCount counts the weekday flags that are set.
func (w *WorkingHours) WorkdayCount() int {
	n := 0
	for d := calendar.Monday; d <= calendar.Sunday; d++ {
		if w.WorksOn(d) {
			n++
		}
	}
	return n
}

// HoursPerDay is the expected hours of one working day.
func (w *WorkingHours) HoursPerDay() float32 {
	if w.WorkdaysPerWeek <= 0 {
		return 0
	}
	return w.ExpectedHours / float32(w.WorkdaysPerWeek)
}

// VacationDaysForYear pro-rates the yearly entitlement by the share of year
// the contract covers.
func (w *WorkingHours) VacationDaysForYear(year int) (float32, error) {
	from, err := w.FromDate()
	if err != nil {
		return 0, err
	}
	to, err := w.ToDate()
	if err != nil {
		return 0, err
	}

	if first := calendar.FirstDayOfYear(year); from.Before(first) {
		from = first
	}
	if last := calendar.LastDayOfYear(year); to.After(last) {
		to = last
	}

	days := calendar.DaysBetween(from, to)
	return float32(w.VacationDays) * float32(days) / float32(calendar.DaysInYear(year)), nil
}

func orDefault(d, def calendar.DayOfWeek) calendar.DayOfWeek {
	if d == 0 {
		return def
	}
	return d
}
