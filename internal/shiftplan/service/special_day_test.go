package service_test

import (
	"testing"

	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecialDayService_CreateAndDelete(t *testing.T) {
	e := newEnv(t, false)
	ctx := plannerCtx()

	holiday := &domain.SpecialDay{Year: 2024, CalendarWeek: 3, DayOfWeek: calendar.Wednesday, DayType: domain.SpecialDayHoliday}
	require.NoError(t, e.special.Create(ctx, holiday))

	days, err := e.special.FindForWeek(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, holiday.ID, days[0].ID)

	require.NoError(t, e.special.Delete(ctx, holiday.ID))
	days, err = e.special.FindForWeek(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Empty(t, days)

	assert.ErrorIs(t, e.special.Delete(ctx, holiday.ID), errors.ErrNotFound)
}

func TestSpecialDayService_Validation(t *testing.T) {
	e := newEnv(t, false)
	cutoff := func(s string) *calendar.TimeOfDay {
		tod := calendar.MustTimeOfDay(s)
		return &tod
	}

	tests := []struct {
		name    string
		day     domain.SpecialDay
		wantErr error
	}{
		{name: "short day inside workday", day: domain.SpecialDay{DayType: domain.SpecialDayShortDay, TimeOfDay: cutoff("12:00")}},
		{name: "short day without cutoff", day: domain.SpecialDay{DayType: domain.SpecialDayShortDay}},
		{name: "short day before workday", day: domain.SpecialDay{DayType: domain.SpecialDayShortDay, TimeOfDay: cutoff("07:00")}, wantErr: errors.ErrTimeOrder},
		{name: "short day after workday", day: domain.SpecialDay{DayType: domain.SpecialDayShortDay, TimeOfDay: cutoff("17:30")}, wantErr: errors.ErrTimeOrder},
		{name: "unknown type", day: domain.SpecialDay{DayType: "bridge_day"}, wantErr: errors.ErrValidation},
		{name: "week 53 in 2024", day: domain.SpecialDay{CalendarWeek: 53, DayType: domain.SpecialDayHoliday}, wantErr: errors.ErrInvalidDate},
		{name: "day of week 8", day: domain.SpecialDay{DayOfWeek: 8, DayType: domain.SpecialDayHoliday}, wantErr: errors.ErrInvalidDayOfWeek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd := tt.day
			sd.Year = 2024
			if sd.CalendarWeek == 0 {
				sd.CalendarWeek = 5
			}
			if sd.DayOfWeek == 0 {
				sd.DayOfWeek = calendar.Friday
			}
			err := e.special.Create(plannerCtx(), &sd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSpecialDayService_HolidayDropsCutoff(t *testing.T) {
	e := newEnv(t, false)
	cutoff := calendar.MustTimeOfDay("12:00")

	sd := &domain.SpecialDay{Year: 2024, CalendarWeek: 5, DayOfWeek: calendar.Monday, DayType: domain.SpecialDayHoliday, TimeOfDay: &cutoff}
	require.NoError(t, e.special.Create(hrCtx(), sd))
	assert.Nil(t, sd.TimeOfDay)
}

func TestSpecialDayService_RequiresPlannerOrHR(t *testing.T) {
	e := newEnv(t, false)
	sp := e.addSalesPerson()

	sd := &domain.SpecialDay{Year: 2024, CalendarWeek: 5, DayOfWeek: calendar.Monday, DayType: domain.SpecialDayHoliday}
	assert.ErrorIs(t, e.special.Create(selfCtx(sp.ID), sd), errors.ErrForbidden)
}
