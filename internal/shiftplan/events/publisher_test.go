package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/events"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/messaging"
	"github.com/shifty/shifty-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Disabled(t *testing.T) {
	p := events.New(nil, logger.Nop())
	assert.False(t, p.Enabled())

	// no transport, nothing to panic on
	p.PublishBillingPeriodsCleared(context.Background(), 2, "hr")
	p.PublishCarryoverUpdated(context.Background(), &domain.Carryover{SalesPersonID: uuid.New(), Year: 2023})

	var nilPublisher *events.ShiftplanEventPublisher
	assert.False(t, nilPublisher.Enabled())
}

func TestPublisher_BillingPeriodCreated(t *testing.T) {
	mock := testutil.NewMockPublisher()
	p := events.New(mock, logger.Nop())

	period := &domain.BillingPeriod{
		ID:           uuid.New(),
		StartDate:    calendar.Date(2024, time.January, 1),
		EndDate:      calendar.Date(2024, time.March, 31),
		SalesPersons: make([]domain.BillingPeriodSalesPerson, 3),
		Lifecycle:    domain.Lifecycle{CreatedBy: "hr"},
	}
	p.PublishBillingPeriodCreated(context.Background(), period)

	published := mock.Events(messaging.EventBillingPeriodCreated)
	require.Len(t, published, 1)
	data, ok := published[0].Payload.(messaging.BillingPeriodCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", data.StartDate)
	assert.Equal(t, "2024-03-31", data.EndDate)
	assert.Equal(t, 3, data.SalesPersons)
	assert.Equal(t, "hr", data.CreatedBy)
}

func TestPublisher_ExtraHoursUsesEntryDay(t *testing.T) {
	mock := testutil.NewMockPublisher()
	p := events.New(mock, logger.Nop())

	eh := &domain.ExtraHours{
		ID:            uuid.New(),
		SalesPersonID: uuid.New(),
		Amount:        2.5,
		Category:      domain.CategorySickLeave,
		DateTime:      time.Date(2024, time.May, 6, 17, 30, 0, 0, time.UTC),
	}
	p.PublishExtraHours(context.Background(), messaging.EventExtraHoursDeleted, eh, "anna")

	published := mock.Events(messaging.EventExtraHoursDeleted)
	require.Len(t, published, 1)
	data := published[0].Payload.(messaging.ExtraHoursEvent)
	assert.Equal(t, "2024-05-06", data.Date)
	assert.Equal(t, "sick_leave", data.Category)
	assert.Equal(t, "anna", data.ChangedBy)
}

func TestPublisher_TransportErrors(t *testing.T) {
	mock := testutil.NewMockPublisher()
	mock.Err = errors.Internal("broker down")
	p := events.New(mock, logger.Nop())

	// fire and forget events only log
	p.PublishBillingPeriodsCleared(context.Background(), 1, "hr")
	mock.AssertNoEventsPublished(t)

	err := p.RequestCarryoverRecalculation(context.Background(), 2023, "hr")
	assert.ErrorIs(t, err, errors.ErrInternal)

	mock.Err = nil
	require.NoError(t, p.RequestCarryoverRecalculation(context.Background(), 2023, "hr"))
	cmds := mock.Events(messaging.CommandCarryoverRecalculate)
	require.Len(t, cmds, 1)
	assert.Equal(t, messaging.CarryoverRecalculateCommand{Year: 2023, RequestedBy: "hr"}, cmds[0].Payload)
}
