package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContract(e *env, salesPersonID uuid.UUID, opts ...func(*domain.WorkingHours)) *domain.WorkingHours {
	w := e.fixtures.Contract(salesPersonID, opts...)
	w.ID = uuid.Nil
	w.Lifecycle = domain.Lifecycle{}
	return &w
}

func TestWorkingHoursService_Lifecycle(t *testing.T) {
	e := newEnv(t, false)
	sp := e.addSalesPerson()
	ctx := hrCtx()

	w := newContract(e, sp.ID)
	require.NoError(t, e.workingHours.Create(ctx, w))

	w.ExpectedHours = 30
	require.NoError(t, e.workingHours.Update(ctx, w))

	contracts, err := e.workingHours.FindBySalesPerson(ctx, sp.ID)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.InDelta(t, 30.0, contracts[0].ExpectedHours, tolerance)

	require.NoError(t, e.workingHours.Delete(ctx, w.ID))
	contracts, err = e.workingHours.FindBySalesPerson(ctx, sp.ID)
	require.NoError(t, err)
	assert.Empty(t, contracts)

	err = e.workingHours.Update(ctx, w)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestWorkingHoursService_Validation(t *testing.T) {
	e := newEnv(t, false)
	sp := e.addSalesPerson()

	tests := []struct {
		name    string
		modify  func(*domain.WorkingHours)
		wantErr error
	}{
		{name: "no weekday", modify: func(w *domain.WorkingHours) {
			w.Monday, w.Tuesday, w.Wednesday, w.Thursday, w.Friday = false, false, false, false, false
		}, wantErr: errors.ErrValidation},
		{name: "zero workdays per week", modify: func(w *domain.WorkingHours) { w.WorkdaysPerWeek = 0 }, wantErr: errors.ErrValidation},
		{name: "eight workdays per week", modify: func(w *domain.WorkingHours) { w.WorkdaysPerWeek = 8 }, wantErr: errors.ErrValidation},
		{name: "workdays per week disagree with weekdays", modify: func(w *domain.WorkingHours) { w.WorkdaysPerWeek = 3 }, wantErr: errors.ErrValidation},
		{name: "six day week", modify: func(w *domain.WorkingHours) { w.Saturday, w.WorkdaysPerWeek = true, 6 }},
		{name: "week 53 in 2024", modify: func(w *domain.WorkingHours) { w.ToWeek = 53 }, wantErr: errors.ErrValidation},
		{name: "to before from", modify: testutil.WithWeeks(
			calendar.Week{Year: 2024, Week: 10}, calendar.Week{Year: 2024, Week: 9},
		), wantErr: errors.ErrDateOrder},
		{name: "single day", modify: func(w *domain.WorkingHours) {
			w.ToYear, w.ToWeek, w.ToDayOfWeek = w.FromYear, w.FromWeek, w.FromDayOfWeek
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newContract(e, sp.ID, tt.modify)
			err := e.workingHours.Create(hrCtx(), w)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWorkingHoursService_RequiresHR(t *testing.T) {
	e := newEnv(t, false)
	sp := e.addSalesPerson()

	err := e.workingHours.Create(selfCtx(sp.ID), newContract(e, sp.ID))
	assert.ErrorIs(t, err, errors.ErrForbidden)

	_, err = e.workingHours.FindBySalesPerson(plannerCtx(), sp.ID)
	assert.ErrorIs(t, err, errors.ErrForbidden)
}
