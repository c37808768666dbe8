package reporting_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/reporting"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contract(fromYear, fromWeek, toYear, toWeek int, hours float32) domain.WorkingHours {
	c := fullTimeContract()
	c.FromYear, c.FromWeek, c.ToYear, c.ToWeek = fromYear, fromWeek, toYear, toWeek
	c.ExpectedHours = hours
	return c
}

func TestContractResolver_DisjointRangesNeverCross(t *testing.T) {
	a := contract(2023, 10, 2024, 5, 40)
	b := contract(2024, 6, 2024, 52, 20)

	resolver, err := reporting.NewContractResolver([]domain.WorkingHours{b, a})
	require.NoError(t, err)

	for w := (calendar.Week{Year: 2023, Week: 10}); !(calendar.Week{Year: 2024, Week: 52}).Before(w); w = w.Next() {
		got := resolver.ForWeek(w)
		require.NotNil(t, got, "week %s", w)
		if w.Before(calendar.Week{Year: 2024, Week: 6}) {
			assert.Equal(t, a.ID, got.ID, "week %s", w)
		} else {
			assert.Equal(t, b.ID, got.ID, "week %s", w)
		}
	}

	assert.Nil(t, resolver.ForWeek(calendar.Week{Year: 2023, Week: 9}))
	assert.Nil(t, resolver.ForDate(calendar.Date(2025, time.January, 1)))
}

func TestContractResolver_LatestStartWins(t *testing.T) {
	long := contract(2024, 1, 2024, 52, 40)
	overlap := contract(2024, 20, 2024, 30, 30)

	resolver, err := reporting.NewContractResolver([]domain.WorkingHours{overlap, long})
	require.NoError(t, err)

	assert.Equal(t, long.ID, resolver.ForWeek(calendar.Week{Year: 2024, Week: 19}).ID)
	assert.Equal(t, overlap.ID, resolver.ForWeek(calendar.Week{Year: 2024, Week: 20}).ID)
	assert.Equal(t, overlap.ID, resolver.ForWeek(calendar.Week{Year: 2024, Week: 30}).ID)
	assert.Equal(t, long.ID, resolver.ForWeek(calendar.Week{Year: 2024, Week: 31}).ID)
}

func TestContractResolver_TieBreaks(t *testing.T) {
	older := contract(2024, 1, 2024, 52, 40)
	older.Created = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := contract(2024, 1, 2024, 52, 30)
	newer.Created = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	resolver, err := reporting.NewContractResolver([]domain.WorkingHours{newer, older})
	require.NoError(t, err)
	assert.Equal(t, newer.ID, resolver.ForWeek(calendar.Week{Year: 2024, Week: 10}).ID)

	low := contract(2024, 1, 2024, 52, 40)
	low.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := contract(2024, 1, 2024, 52, 40)
	high.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	for _, order := range [][]domain.WorkingHours{{low, high}, {high, low}} {
		resolver, err := reporting.NewContractResolver(order)
		require.NoError(t, err)
		assert.Equal(t, high.ID, resolver.ForWeek(calendar.Week{Year: 2024, Week: 10}).ID)
	}
}

func TestContractResolver_SkipsDeleted(t *testing.T) {
	deleted := time.Now()
	c := contract(2024, 1, 2024, 52, 40)
	c.Deleted = &deleted

	resolver, err := reporting.NewContractResolver([]domain.WorkingHours{c})
	require.NoError(t, err)
	assert.Nil(t, resolver.ForWeek(calendar.Week{Year: 2024, Week: 10}))
}

func TestContractResolver_DayOfWeekBounds(t *testing.T) {
	c := contract(2024, 10, 2024, 12, 40)
	c.FromDayOfWeek = calendar.Wednesday

	resolver, err := reporting.NewContractResolver([]domain.WorkingHours{c})
	require.NoError(t, err)

	assert.Nil(t, resolver.ForDate(weekDate(t, 2024, 10, calendar.Tuesday)))
	assert.NotNil(t, resolver.ForDate(weekDate(t, 2024, 10, calendar.Wednesday)))
	assert.NotNil(t, resolver.ForDate(weekDate(t, 2024, 12, calendar.Sunday)))
}

func TestContractResolver_InvalidWeek(t *testing.T) {
	_, err := reporting.NewContractResolver([]domain.WorkingHours{contract(2023, 53, 2024, 1, 40)})
	assert.Error(t, err)
}

func TestWorkday_ExpectedHours(t *testing.T) {
	c := fullTimeContract()
	monday := weekDate(t, 2024, 3, calendar.Monday)
	saturday := weekDate(t, 2024, 3, calendar.Saturday)
	noon := calendar.MustTimeOfDay("12:00")
	late := calendar.MustTimeOfDay("18:00")

	tests := []struct {
		name     string
		contract *domain.WorkingHours
		day      time.Time
		special  *domain.SpecialDay
		want     float32
	}{
		{"regular workday", &c, monday, nil, 8},
		{"day off by pattern", &c, saturday, nil, 0},
		{"no contract", nil, monday, nil, 0},
		{"holiday", &c, monday, &domain.SpecialDay{DayType: domain.SpecialDayHoliday}, 0},
		{"short day at noon", &c, monday, &domain.SpecialDay{DayType: domain.SpecialDayShortDay, TimeOfDay: &noon}, 4},
		{"short day after workday end", &c, monday, &domain.SpecialDay{DayType: domain.SpecialDayShortDay, TimeOfDay: &late}, 8},
		{"short day without cutoff", &c, monday, &domain.SpecialDay{DayType: domain.SpecialDayShortDay}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reporting.DefaultWorkday.ExpectedHours(tt.contract, tt.day, tt.special)
			assert.InDelta(t, tt.want, got, tolerance)
		})
	}
}

func TestVacationDaysForYear(t *testing.T) {
	c := contract(2024, 27, 2025, 10, 40)
	c.VacationDays = 30

	days, err := c.VacationDaysForYear(2024)
	require.NoError(t, err)

	// 2024-07-01 .. 2024-12-31 is 184 of 366 days.
	assert.InDelta(t, 30.0*184/366, days, tolerance)

	none, err := c.VacationDaysForYear(2026)
	require.NoError(t, err)
	assert.Zero(t, none)
}
