package service_test

import (
	"context"
	"testing"

	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/messaging"
	"github.com/shifty/shifty-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarryoverService_UpdateAllEmployees(t *testing.T) {
	e := newEnv(t, true)
	sp := e.addSalesPerson()
	e.addContract(sp.ID)
	e.addSalesPerson(testutil.Unpaid())
	e.shiftplan.items = append(e.shiftplan.items, e.fixtures.Booked(sp.ID, 8, 2024, 3, calendar.Monday))
	for _, day := range []calendar.DayOfWeek{calendar.Monday, calendar.Tuesday} {
		e.extraHours.items = append(e.extraHours.items,
			e.fixtures.ExtraHours(sp.ID, domain.CategoryVacation, 8, weekDate(t, 2024, 10, day)))
	}

	written, err := e.carryover.UpdateAllEmployees(actor.WithSystem(context.Background()), 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	c, err := e.carryovers.Get(context.Background(), sp.ID, 2024)
	require.NoError(t, err)
	require.NotNil(t, c)

	// 52 weeks of 40 hours, 8 hours booked and 16 hours of vacation credited.
	assert.InDelta(t, 8+16-52*40, c.CarryoverHours, tolerance)
	assert.Equal(t, 28, c.Vacation)
	assert.Equal(t, "System", c.CreatedBy)
	assert.Len(t, e.events.Events(messaging.EventCarryoverUpdated), 1)
}

func TestCarryoverService_UpdateAllEmployees_ChainsYears(t *testing.T) {
	e := newEnv(t, false)
	sp := e.addSalesPerson()
	e.shiftplan.items = append(e.shiftplan.items,
		e.fixtures.Booked(sp.ID, 5, 2023, 10, calendar.Monday),
		e.fixtures.Booked(sp.ID, 3, 2024, 10, calendar.Monday),
	)
	ctx := hrCtx()

	_, err := e.carryover.UpdateAllEmployees(ctx, 2023)
	require.NoError(t, err)
	_, err = e.carryover.UpdateAllEmployees(ctx, 2024)
	require.NoError(t, err)

	c, err := e.carryovers.Get(context.Background(), sp.ID, 2024)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.InDelta(t, 8.0, c.CarryoverHours, tolerance)
}

func TestCarryoverService_UpdateAllEmployees_ContinuesAfterFailure(t *testing.T) {
	e := newEnv(t, false)
	failing := e.addSalesPerson(testutil.WithSalesPersonName("A"))
	ok := e.addSalesPerson(testutil.WithSalesPersonName("B"))
	e.carryovers.failFor = failing.ID

	written, err := e.carryover.UpdateAllEmployees(hrCtx(), 2024)
	require.Error(t, err)
	assert.Equal(t, 1, written)

	c, getErr := e.carryovers.Get(context.Background(), ok.ID, 2024)
	require.NoError(t, getErr)
	assert.NotNil(t, c)
}

func TestCarryoverService_UpdateAllEmployees_RequiresHR(t *testing.T) {
	e := newEnv(t, false)

	_, err := e.carryover.UpdateAllEmployees(plannerCtx(), 2024)
	assert.ErrorIs(t, err, errors.ErrForbidden)
}

func TestCarryoverService_SetAndGet(t *testing.T) {
	e := newEnv(t, false)
	sp := e.addSalesPerson()

	require.NoError(t, e.carryover.Set(hrCtx(), &domain.Carryover{SalesPersonID: sp.ID, Year: 2023, CarryoverHours: 4}))
	require.NoError(t, e.carryover.Set(hrCtx(), &domain.Carryover{SalesPersonID: sp.ID, Year: 2023, CarryoverHours: 6}))

	c, err := e.carryover.Get(selfCtx(sp.ID), sp.ID, 2023)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.InDelta(t, 6.0, c.CarryoverHours, tolerance)

	missing, err := e.carryover.Get(hrCtx(), sp.ID, 2022)
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = e.carryover.Set(selfCtx(sp.ID), &domain.Carryover{SalesPersonID: sp.ID, Year: 2023})
	assert.ErrorIs(t, err, errors.ErrForbidden)
}

func TestCarryoverService_RequestRecalculation(t *testing.T) {
	t.Run("publishes a command when a broker is configured", func(t *testing.T) {
		e := newEnv(t, true)
		e.addSalesPerson()

		require.NoError(t, e.carryover.RequestRecalculation(hrCtx(), 2024))

		commands := e.events.Events(messaging.CommandCarryoverRecalculate)
		require.Len(t, commands, 1)
		assert.Equal(t, 2024, commands[0].Payload.(messaging.CarryoverRecalculateCommand).Year)
		assert.Empty(t, e.carryovers.items)
	})

	t.Run("recalculates inline without broker", func(t *testing.T) {
		e := newEnv(t, false)
		sp := e.addSalesPerson()

		require.NoError(t, e.carryover.RequestRecalculation(hrCtx(), 2024))

		c, err := e.carryovers.Get(context.Background(), sp.ID, 2024)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}
