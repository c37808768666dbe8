package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
)

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
	now      time.Time
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{now: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

func (f *FixtureFactory) lifecycle() domain.Lifecycle {
	return domain.Lifecycle{Created: f.now, CreatedBy: "fixtures", Version: uuid.New()}
}

// SalesPerson creates a paid sales person
func (f *FixtureFactory) SalesPerson(opts ...func(*domain.SalesPerson)) domain.SalesPerson {
	seq := f.nextSeq()
	sp := domain.SalesPerson{
		ID:        uuid.New(),
		Name:      fmt.Sprintf("Sales Person %03d", seq),
		IsPaid:    true,
		Lifecycle: f.lifecycle(),
	}
	for _, opt := range opts {
		opt(&sp)
	}
	return sp
}

// WithSalesPersonName sets the name
func WithSalesPersonName(name string) func(*domain.SalesPerson) {
	return func(sp *domain.SalesPerson) {
		sp.Name = name
	}
}

// Unpaid marks the sales person as volunteer
func Unpaid() func(*domain.SalesPerson) {
	return func(sp *domain.SalesPerson) {
		sp.IsPaid = false
	}
}

// Contract creates a Monday to Friday 40 hour contract for all of 2024
func (f *FixtureFactory) Contract(salesPersonID uuid.UUID, opts ...func(*domain.WorkingHours)) domain.WorkingHours {
	w := domain.WorkingHours{
		ID:              uuid.New(),
		SalesPersonID:   salesPersonID,
		ExpectedHours:   40,
		FromYear:        2024,
		FromWeek:        1,
		FromDayOfWeek:   calendar.Monday,
		ToYear:          2024,
		ToWeek:          52,
		ToDayOfWeek:     calendar.Sunday,
		Monday:          true,
		Tuesday:         true,
		Wednesday:       true,
		Thursday:        true,
		Friday:          true,
		WorkdaysPerWeek: 5,
		VacationDays:    30,
		Lifecycle:       f.lifecycle(),
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// WithWeeks sets the first and last contract week
func WithWeeks(from, to calendar.Week) func(*domain.WorkingHours) {
	return func(w *domain.WorkingHours) {
		w.FromYear, w.FromWeek = from.Year, from.Week
		w.ToYear, w.ToWeek = to.Year, to.Week
	}
}

// WithExpectedHours sets the weekly hours
func WithExpectedHours(hours float32) func(*domain.WorkingHours) {
	return func(w *domain.WorkingHours) {
		w.ExpectedHours = hours
	}
}

// Booked returns the booked hours of one day
func (f *FixtureFactory) Booked(salesPersonID uuid.UUID, hours float32, year, week int, day calendar.DayOfWeek) domain.ShiftplanReportDay {
	return domain.ShiftplanReportDay{
		SalesPersonID: salesPersonID,
		Hours:         hours,
		Year:          year,
		CalendarWeek:  week,
		DayOfWeek:     day,
	}
}

// ExtraHours creates an entry at noon of date
func (f *FixtureFactory) ExtraHours(salesPersonID uuid.UUID, category domain.ExtraHoursCategory, amount float32, date time.Time) domain.ExtraHours {
	return domain.ExtraHours{
		ID:            uuid.New(),
		SalesPersonID: salesPersonID,
		Amount:        amount,
		Category:      category,
		Description:   fmt.Sprintf("%s entry %d", category, f.nextSeq()),
		DateTime:      calendar.Truncate(date).Add(12 * time.Hour),
		Lifecycle:     f.lifecycle(),
	}
}

// Holiday creates a holiday special day
func (f *FixtureFactory) Holiday(year, week int, day calendar.DayOfWeek) domain.SpecialDay {
	return domain.SpecialDay{
		ID:           uuid.New(),
		Year:         year,
		CalendarWeek: week,
		DayOfWeek:    day,
		DayType:      domain.SpecialDayHoliday,
		Lifecycle:    f.lifecycle(),
	}
}

// ShortDay creates a short day ending at cutoff
func (f *FixtureFactory) ShortDay(year, week int, day calendar.DayOfWeek, cutoff string) domain.SpecialDay {
	t := calendar.MustTimeOfDay(cutoff)
	sd := f.Holiday(year, week, day)
	sd.DayType = domain.SpecialDayShortDay
	sd.TimeOfDay = &t
	return sd
}

// Slot creates a slot valid from 2024-01-01
func (f *FixtureFactory) Slot(day calendar.DayOfWeek, from, to string) domain.Slot {
	return domain.Slot{
		ID:           uuid.New(),
		DayOfWeek:    day,
		From:         calendar.MustTimeOfDay(from),
		To:           calendar.MustTimeOfDay(to),
		MinResources: 1,
		ValidFrom:    f.now,
		Lifecycle:    f.lifecycle(),
	}
}

// Booking books salesPersonID onto slotID in one week
func (f *FixtureFactory) Booking(salesPersonID, slotID uuid.UUID, year, week int) domain.Booking {
	return domain.Booking{
		ID:            uuid.New(),
		SalesPersonID: salesPersonID,
		SlotID:        slotID,
		Year:          year,
		CalendarWeek:  week,
		Lifecycle:     f.lifecycle(),
	}
}
