// Package reporting turns contracts, bookings, extra hours and special days
// into hour balances. It performs no I/O and keeps no state between calls.
package reporting

import (
	"math"
	"sort"
	"time"

	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
)

// Input is everything the engine needs for one sales person and window.
// Records outside [From, To] are ignored.
type Input struct {
	From        time.Time
	To          time.Time
	Contracts   []domain.WorkingHours
	Shiftplan   []domain.ShiftplanReportDay
	ExtraHours  []domain.ExtraHours
	SpecialDays []domain.SpecialDay
	// Carryover from the previous year, nil when the window excludes it.
	Carryover *domain.Carryover
	// Year the vacation entitlement is computed for. Zero means the year of To.
	Year int
}

// Engine builds employee reports.
type Engine struct {
	workday Workday
}

// NewEngine creates an engine using workday to pro-rate short days.
func NewEngine(workday Workday) *Engine {
	return &Engine{workday: workday}
}

type day struct {
	date        time.Time
	expected    float32
	hoursPerDay float32
	contract    *domain.WorkingHours
	entries     []WorkingHoursDay
}

// Build computes the full report. A window ending the day before it starts is
// empty and yields only the carryover.
func (e *Engine) Build(salesPerson domain.SalesPerson, in Input) (*EmployeeReport, error) {
	from, to := calendar.Truncate(in.From), calendar.Truncate(in.To)
	if to.Before(from.AddDate(0, 0, -1)) {
		return nil, errors.DateOrderWrong(calendar.FormatDate(from), calendar.FormatDate(to))
	}

	resolver, err := NewContractResolver(in.Contracts)
	if err != nil {
		return nil, err
	}
	specials, err := indexSpecialDays(in.SpecialDays)
	if err != nil {
		return nil, err
	}
	entries, err := timeline(in, from, to)
	if err != nil {
		return nil, err
	}

	days := make([]day, 0, calendar.DaysBetween(from, to))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		contract := resolver.ForDate(d)
		var perDay float32
		if contract != nil {
			perDay = contract.HoursPerDay()
		}
		days = append(days, day{
			date:        d,
			expected:    e.workday.ExpectedHours(contract, d, specials[d]),
			hoursPerDay: perDay,
			contract:    contract,
		})
	}
	for _, entry := range entries {
		i := calendar.DaysBetween(from, entry.Date) - 1
		days[i].entries = append(days[i].entries, entry)
	}

	report := &EmployeeReport{
		SalesPerson: salesPerson,
		From:        from,
		To:          to,
		Totals:      sumDays(days),
		ByWeek:      []GroupedReportHours{},
		ByMonth:     []GroupedReportHours{},
	}

	if in.Carryover != nil {
		report.CarryoverHours = in.Carryover.CarryoverHours
		report.VacationCarryover = in.Carryover.Vacation
	}
	report.BalanceHours = float32(float64(report.BalanceHours) + float64(report.CarryoverHours))

	year := in.Year
	if year == 0 {
		year = to.Year()
		if to.Before(from) {
			year = from.Year()
		}
	}
	var entitlement float64
	for _, c := range resolver.Contracts() {
		share, err := c.VacationDaysForYear(year)
		if err != nil {
			return nil, err
		}
		entitlement += float64(share)
	}
	report.VacationEntitlement = float32(math.Round(entitlement)) + float32(report.VacationCarryover)

	for _, g := range calendar.GroupByCalendarWeek(days, dayDate) {
		bucket := newBucket(g.Items)
		bucket.Year, bucket.Week = g.Key.Year, g.Key.Week
		if c := lastContract(g.Items); c != nil {
			bucket.ContractWeeklyHours = c.ExpectedHours
		}
		report.ByWeek = append(report.ByWeek, bucket)
	}
	for _, g := range calendar.GroupByMonth(days, dayDate) {
		bucket := newBucket(g.Items)
		bucket.Year, bucket.Month = g.Key.Year, int(g.Key.Month)
		report.ByMonth = append(report.ByMonth, bucket)
	}

	return report, nil
}

func dayDate(d day) time.Time { return d.date }

// lastContract is the contract in force on the latest contracted day, so a
// week where contracts change is labelled with the one in force at its end.
func lastContract(days []day) *domain.WorkingHours {
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].contract != nil {
			return days[i].contract
		}
	}
	return nil
}

func newBucket(days []day) GroupedReportHours {
	b := GroupedReportHours{
		From:   days[0].date,
		To:     days[len(days)-1].date,
		Totals: sumDays(days),
		Days:   []WorkingHoursDay{},
	}
	for _, d := range days {
		b.Days = append(b.Days, d.entries...)
	}
	return b
}

// sums accumulates in float64. Totals are rounded to float32 once, so a
// window's total equals the sum of its buckets.
type sums struct {
	expected, shiftplan, extraWork, vacation, sickLeave, holiday, unavailable float64
	vacationDays, sickLeaveDays, holidayDays                                  float64
	custom                                                                    map[string]float64
}

// sumDays adds up days in date order and entries in timeline order.
func sumDays(days []day) Totals {
	s := sums{custom: map[string]float64{}}

	for _, d := range days {
		s.expected += float64(d.expected)
		for _, entry := range d.entries {
			hours := float64(entry.Hours)
			switch entry.Category {
			case CategoryShiftplan:
				s.shiftplan += hours
			case CategoryExtraWork:
				s.extraWork += hours
			case CategoryVacation:
				s.vacation += hours
				s.vacationDays += daysOf(hours, d.hoursPerDay)
			case CategorySickLeave:
				s.sickLeave += hours
				s.sickLeaveDays += daysOf(hours, d.hoursPerDay)
			case CategoryHoliday:
				s.holiday += hours
				s.holidayDays += daysOf(hours, d.hoursPerDay)
			case CategoryUnavailable:
				s.unavailable += hours
			case CategoryCustom:
				s.custom[entry.CustomName] += hours
			}
		}
	}
	return s.totals()
}

func (s sums) totals() Totals {
	overall := s.shiftplan + s.extraWork + s.vacation + s.sickLeave + s.holiday
	t := Totals{
		ExpectedHours:    float32(s.expected),
		OverallHours:     float32(overall),
		BalanceHours:     float32(overall - s.expected),
		ShiftplanHours:   float32(s.shiftplan),
		ExtraWorkHours:   float32(s.extraWork),
		VacationHours:    float32(s.vacation),
		SickLeaveHours:   float32(s.sickLeave),
		HolidayHours:     float32(s.holiday),
		UnavailableHours: float32(s.unavailable),
		VacationDays:     float32(s.vacationDays),
		SickLeaveDays:    float32(s.sickLeaveDays),
		HolidayDays:      float32(s.holidayDays),
		AbsenceDays:      float32(s.vacationDays + s.sickLeaveDays + s.holidayDays),
	}

	names := make([]string, 0, len(s.custom))
	for name := range s.custom {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.CustomExtraHours = append(t.CustomExtraHours, CustomExtraHours{Name: name, Hours: float32(s.custom[name])})
	}
	return t
}

func daysOf(hours float64, hoursPerDay float32) float64 {
	if hoursPerDay <= 0 {
		return 0
	}
	return hours / float64(hoursPerDay)
}

// timeline merges bookings and extra hours inside [from, to], ordered by
// (date, category).
func timeline(in Input, from, to time.Time) ([]WorkingHoursDay, error) {
	var entries []WorkingHoursDay
	inWindow := func(d time.Time) bool { return !d.Before(from) && !d.After(to) }

	for i := range in.Shiftplan {
		date, err := in.Shiftplan[i].Date()
		if err != nil {
			return nil, err
		}
		if inWindow(date) {
			entries = append(entries, WorkingHoursDay{Date: date, Hours: in.Shiftplan[i].Hours, Category: CategoryShiftplan})
		}
	}

	for i := range in.ExtraHours {
		eh := &in.ExtraHours[i]
		if eh.IsDeleted() || !inWindow(eh.Date()) {
			continue
		}
		category, err := categoryOf(eh.Category)
		if err != nil {
			return nil, errors.Internal(err.Error())
		}
		entry := WorkingHoursDay{Date: eh.Date(), Hours: eh.Amount, Category: category}
		if category == CategoryCustom {
			entry.CustomName = eh.CustomName
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Category < entries[j].Category
	})
	return entries, nil
}

// indexSpecialDays maps dates to their special day. A holiday outranks a
// short day on the same date.
func indexSpecialDays(specialDays []domain.SpecialDay) (map[time.Time]*domain.SpecialDay, error) {
	index := make(map[time.Time]*domain.SpecialDay, len(specialDays))
	for i := range specialDays {
		sd := &specialDays[i]
		if sd.IsDeleted() {
			continue
		}
		date, err := sd.Date()
		if err != nil {
			return nil, err
		}
		if existing, ok := index[date]; ok && existing.DayType == domain.SpecialDayHoliday {
			continue
		}
		index[date] = sd
	}
	return index, nil
}
