// Package calendar converts between ISO-8601 week dates and calendar dates
// and groups dated items by calendar week or month.
//
// All dates are plain days at midnight UTC.
package calendar

import (
	"fmt"
	"time"

	"github.com/shifty/shifty-backend/pkg/errors"
)

// DayOfWeek is an ISO weekday, Monday = 1 .. Sunday = 7.
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ParseDayOfWeek converts a stored ISO weekday number.
func ParseDayOfWeek(n int) (DayOfWeek, error) {
	if n < 1 || n > 7 {
		return 0, errors.InvalidDayOfWeek(n)
	}
	return DayOfWeek(n), nil
}

// FromWeekday converts a time.Weekday.
func FromWeekday(w time.Weekday) DayOfWeek {
	if w == time.Sunday {
		return Sunday
	}
	return DayOfWeek(w)
}

// Valid reports whether d is in 1..7.
func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

// Week is an ISO year and week number.
type Week struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// Compare orders weeks lexicographically by (year, week).
func (w Week) Compare(o Week) int {
	switch {
	case w.Year < o.Year:
		return -1
	case w.Year > o.Year:
		return 1
	case w.Week < o.Week:
		return -1
	case w.Week > o.Week:
		return 1
	}
	return 0
}

// Before reports whether w is strictly before o.
func (w Week) Before(o Week) bool { return w.Compare(o) < 0 }

// Valid reports whether the week exists in its ISO year.
func (w Week) Valid() bool {
	return w.Week >= 1 && w.Week <= WeeksInYear(w.Year)
}

// Date returns the given day of the week.
func (w Week) Date(d DayOfWeek) (time.Time, error) {
	return WeekDateToDate(w.Year, w.Week, d)
}

// Next returns the following ISO week.
func (w Week) Next() Week {
	if w.Week >= WeeksInYear(w.Year) {
		return Week{Year: w.Year + 1, Week: 1}
	}
	return Week{Year: w.Year, Week: w.Week + 1}
}

func (w Week) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// WeekOf returns the ISO week containing t.
func WeekOf(t time.Time) Week {
	y, w := t.ISOWeek()
	return Week{Year: y, Week: w}
}

// WeeksInYear returns 52 or 53, the number of ISO weeks in year.
// December 28th always lies in the last ISO week of its year.
func WeeksInYear(year int) int {
	_, w := Date(year, time.December, 28).ISOWeek()
	return w
}

// WeekDateToDate converts an ISO week date to a calendar date.
func WeekDateToDate(year, week int, day DayOfWeek) (time.Time, error) {
	if !day.Valid() {
		return time.Time{}, errors.InvalidDayOfWeek(int(day))
	}
	if week < 1 || week > WeeksInYear(year) {
		return time.Time{}, errors.InvalidDate(fmt.Sprintf("week %d does not exist in %d", week, year))
	}

	// January 4th is always in week 1.
	jan4 := Date(year, time.January, 4)
	monday := jan4.AddDate(0, 0, 1-int(FromWeekday(jan4.Weekday())))
	return monday.AddDate(0, 0, (week-1)*7+int(day)-1), nil
}

// DateToWeekDate converts a calendar date to its ISO week date.
func DateToWeekDate(t time.Time) (year, week int, day DayOfWeek) {
	year, week = t.ISOWeek()
	return year, week, FromWeekday(t.Weekday())
}

// Date builds a day at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day, keeping the calendar date of t in its own location.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// FirstDayOfYear returns January 1st.
func FirstDayOfYear(year int) time.Time {
	return Date(year, time.January, 1)
}

// LastDayOfYear returns December 31st.
func LastDayOfYear(year int) time.Time {
	return Date(year, time.December, 31)
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	return LastDayOfYear(year).YearDay()
}

// DaysBetween counts the days from a to b inclusive. It returns 0 when b is before a.
func DaysBetween(a, b time.Time) int {
	n := int(Truncate(b).Sub(Truncate(a)).Hours()/24) + 1
	if n < 0 {
		return 0
	}
	return n
}

// ParseDate parses a "2006-01-02" date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.InvalidDate(fmt.Sprintf("invalid date %q", s))
	}
	return t, nil
}

// FormatDate formats t as "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
