package calendar

import (
	"fmt"
	"sort"
	"time"
)

// Month identifies a calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Compare orders months chronologically.
func (m Month) Compare(o Month) int {
	switch {
	case m.Year != o.Year:
		return m.Year - o.Year
	default:
		return int(m.Month) - int(o.Month)
	}
}

// FirstDay returns the 1st of the month.
func (m Month) FirstDay() time.Time {
	return Date(m.Year, m.Month, 1)
}

// LastDay returns the last day of the month.
func (m Month) LastDay() time.Time {
	return m.FirstDay().AddDate(0, 1, -1)
}

func (m Month) String() string {
	return fmt.Sprintf("%d-%02d", m.Year, int(m.Month))
}

// Group is one bucket of items sharing a key.
type Group[K any, T any] struct {
	Key   K
	Items []T
}

// GroupByCalendarWeek buckets items by the ISO week of their date, ascending.
// Items keep their input order inside a bucket.
func GroupByCalendarWeek[T any](items []T, date func(T) time.Time) []Group[Week, T] {
	return groupBy(items, func(item T) Week { return WeekOf(date(item)) }, Week.Compare)
}

// GroupByMonth buckets items by the month of their date, ascending.
func GroupByMonth[T any](items []T, date func(T) time.Time) []Group[Month, T] {
	return groupBy(items, func(item T) Month { return MonthOf(date(item)) }, Month.Compare)
}

func groupBy[K comparable, T any](items []T, key func(T) K, compare func(K, K) int) []Group[K, T] {
	index := make(map[K]int)
	var groups []Group[K, T]

	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return compare(groups[i].Key, groups[j].Key) < 0
	})
	return groups
}
