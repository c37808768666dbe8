package repository_test

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/repository"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	var err error
	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		log.Fatalf("failed to create integration suite: %v", err)
	}

	code := m.Run()

	suite.Cleanup(ctx)
	testutil.TerminateContainer(ctx)
	os.Exit(code)
}

func createSalesPerson(t *testing.T, ctx context.Context, opts ...func(*domain.SalesPerson)) domain.SalesPerson {
	t.Helper()
	sp := suite.Fixtures.SalesPerson(opts...)
	require.NoError(t, repository.NewSalesPersonRepository(suite.DB).Create(ctx, &sp))
	return sp
}

func TestSalesPersonRepository_Integration(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := suite.Reset(t)
	repo := repository.NewSalesPersonRepository(suite.DB)

	bea := createSalesPerson(t, ctx, testutil.WithSalesPersonName("Bea"))
	anna := createSalesPerson(t, ctx, testutil.WithSalesPersonName("Anna"), testutil.Unpaid())

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, anna.ID, all[0].ID)
	assert.False(t, all[0].IsPaid)
	assert.Equal(t, bea.ID, all[1].ID)

	got, err := repo.GetByID(ctx, bea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bea", got.Name)
	assert.Equal(t, bea.Version, got.Version)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestShiftplanRepository_AggregatesBookedHours(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := suite.Reset(t)
	repo := repository.NewShiftplanRepository(suite.DB)

	sp := createSalesPerson(t, ctx)
	morning := suite.Fixtures.Slot(calendar.Monday, "08:00", "12:00")
	afternoon := suite.Fixtures.Slot(calendar.Monday, "13:00", "15:30")
	friday := suite.Fixtures.Slot(calendar.Friday, "10:00", "14:00")
	for _, s := range []*domain.Slot{&morning, &afternoon, &friday} {
		require.NoError(t, repo.CreateSlot(ctx, s))
	}

	b1 := suite.Fixtures.Booking(sp.ID, morning.ID, 2024, 10)
	b2 := suite.Fixtures.Booking(sp.ID, afternoon.ID, 2024, 10)
	b3 := suite.Fixtures.Booking(sp.ID, friday.ID, 2024, 11)
	for _, b := range []*domain.Booking{&b1, &b2, &b3} {
		require.NoError(t, repo.CreateBooking(ctx, b))
	}

	dup := suite.Fixtures.Booking(sp.ID, morning.ID, 2024, 10)
	assert.ErrorIs(t, repo.CreateBooking(ctx, &dup), errors.ErrConflict)

	days, err := repo.FindForWeek(ctx, 2024, 10)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, calendar.Monday, days[0].DayOfWeek)
	assert.Equal(t, float32(6.5), days[0].Hours)

	// 2024-03-04 is the Monday of week 10, 2024-03-15 the Friday of week 11
	days, err = repo.FindBySalesPerson(ctx, sp.ID, calendar.Date(2024, time.March, 4), calendar.Date(2024, time.March, 15))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 11, days[1].CalendarWeek)
	assert.Equal(t, float32(4), days[1].Hours)

	require.NoError(t, repo.DeleteBooking(ctx, b3.ID, "hr", time.Now(), uuid.New()))
	assert.ErrorIs(t, repo.DeleteBooking(ctx, b3.ID, "hr", time.Now(), uuid.New()), errors.ErrConflict)

	days, err = repo.FindForWeek(ctx, 2024, 11)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestWorkingHoursRepository_Integration(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := suite.Reset(t)
	repo := repository.NewWorkingHoursRepository(suite.DB)

	sp := createSalesPerson(t, ctx)
	first := suite.Fixtures.Contract(sp.ID, testutil.WithWeeks(calendar.Week{Year: 2024, Week: 1}, calendar.Week{Year: 2024, Week: 20}))
	second := suite.Fixtures.Contract(sp.ID,
		testutil.WithWeeks(calendar.Week{Year: 2024, Week: 21}, calendar.Week{Year: 2024, Week: 52}),
		testutil.WithExpectedHours(20.5))
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))

	contracts, err := repo.FindBySalesPerson(ctx, sp.ID)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, first.ID, contracts[0].ID)
	assert.Equal(t, float32(20.5), contracts[1].ExpectedHours)
	assert.Equal(t, calendar.Sunday, contracts[1].ToDayOfWeek)

	inWeek, err := repo.FindForWeek(ctx, 2024, 25)
	require.NoError(t, err)
	require.Len(t, inWeek, 1)
	assert.Equal(t, second.ID, inWeek[0].ID)

	stale := first.Version
	first.ExpectedHours = 32
	first.Version = uuid.New()
	require.NoError(t, repo.Update(ctx, &first, stale))
	assert.ErrorIs(t, repo.Update(ctx, &first, stale), errors.ErrConflict)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, float32(32), got.ExpectedHours)
	assert.Equal(t, first.Version, got.Version)
}

func TestExtraHoursRepository_Integration(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := suite.Reset(t)
	repo := repository.NewExtraHoursRepository(suite.DB)

	sp := createSalesPerson(t, ctx)
	custom := domain.CustomExtraHours{ID: uuid.New(), Name: "Training", Lifecycle: domain.Lifecycle{
		Created: time.Now().UTC(), CreatedBy: "hr", Version: uuid.New(),
	}}
	require.NoError(t, repo.CreateCustom(ctx, &custom))

	work := suite.Fixtures.ExtraHours(sp.ID, domain.CategoryExtraWork, 3, calendar.Date(2024, time.March, 4))
	training := suite.Fixtures.ExtraHours(sp.ID, domain.CategoryCustom, 2, calendar.Date(2024, time.March, 31))
	training.CustomExtraHoursID = &custom.ID
	outside := suite.Fixtures.ExtraHours(sp.ID, domain.CategoryVacation, 8, calendar.Date(2024, time.April, 1))
	for _, eh := range []*domain.ExtraHours{&work, &training, &outside} {
		require.NoError(t, repo.Create(ctx, eh))
	}

	march, err := repo.FindBySalesPerson(ctx, sp.ID, calendar.Date(2024, time.March, 1), calendar.Date(2024, time.March, 31))
	require.NoError(t, err)
	require.Len(t, march, 2)
	assert.Equal(t, work.ID, march[0].ID)
	assert.Equal(t, "Training", march[1].CustomName)

	everybody, err := repo.FindInRange(ctx, calendar.Date(2024, time.April, 1), calendar.Date(2024, time.April, 1))
	require.NoError(t, err)
	require.Len(t, everybody, 1)
	assert.Equal(t, domain.CategoryVacation, everybody[0].Category)

	stale := work.Version
	deleted := time.Now().UTC()
	deletedBy := "hr"
	work.Deleted, work.DeletedBy, work.Version = &deleted, &deletedBy, uuid.New()
	require.NoError(t, repo.Update(ctx, &work, stale))

	march, err = repo.FindBySalesPerson(ctx, sp.ID, calendar.Date(2024, time.March, 1), calendar.Date(2024, time.March, 31))
	require.NoError(t, err)
	assert.Len(t, march, 1)

	got, err := repo.GetByID(ctx, work.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Deleted)

	customs, err := repo.ListCustom(ctx)
	require.NoError(t, err)
	require.Len(t, customs, 1)
	assert.Equal(t, custom.ID, customs[0].ID)
}

func TestSpecialDayRepository_Integration(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := suite.Reset(t)
	repo := repository.NewSpecialDayRepository(suite.DB)

	holiday := suite.Fixtures.Holiday(2024, 13, calendar.Friday)
	short := suite.Fixtures.ShortDay(2024, 13, calendar.Thursday, "12:00")
	easter := suite.Fixtures.Holiday(2024, 14, calendar.Monday)
	for _, sd := range []*domain.SpecialDay{&holiday, &short, &easter} {
		require.NoError(t, repo.Create(ctx, sd))
	}

	dup := suite.Fixtures.Holiday(2024, 13, calendar.Friday)
	assert.ErrorIs(t, repo.Create(ctx, &dup), errors.ErrConflict)

	week, err := repo.FindForWeek(ctx, 2024, 13)
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, domain.SpecialDayShortDay, week[0].DayType)
	require.NotNil(t, week[0].TimeOfDay)
	assert.Equal(t, "12:00", week[0].TimeOfDay.String())

	span, err := repo.FindRange(ctx, calendar.Date(2024, time.March, 28), calendar.Date(2024, time.April, 1))
	require.NoError(t, err)
	assert.Len(t, span, 3)

	stale := holiday.Version
	deleted := time.Now().UTC()
	deletedBy := "hr"
	holiday.Deleted, holiday.DeletedBy, holiday.Version = &deleted, &deletedBy, uuid.New()
	require.NoError(t, repo.SoftDelete(ctx, &holiday, stale))

	week, err = repo.FindForWeek(ctx, 2024, 13)
	require.NoError(t, err)
	assert.Len(t, week, 1)
}

func TestCarryoverRepository_Integration(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := suite.Reset(t)
	repo := repository.NewCarryoverRepository(suite.DB)

	sp := createSalesPerson(t, ctx)
	created := time.Date(2024, time.January, 1, 3, 0, 0, 0, time.UTC)
	c := &domain.Carryover{
		SalesPersonID:  sp.ID,
		Year:           2023,
		CarryoverHours: 12.25,
		Vacation:       3,
		Lifecycle:      domain.Lifecycle{Created: created, CreatedBy: "System", Version: uuid.New()},
	}
	require.NoError(t, repo.Upsert(ctx, c))

	c.CarryoverHours = -4
	c.Vacation = 0
	c.Created = time.Now().UTC()
	c.Version = uuid.New()
	require.NoError(t, repo.Upsert(ctx, c))

	got, err := repo.Get(ctx, sp.ID, 2023)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, float32(-4), got.CarryoverHours)
	assert.Equal(t, 0, got.Vacation)
	assert.Equal(t, c.Version, got.Version)
	assert.True(t, created.Equal(got.Created))

	missing, err := repo.Get(ctx, sp.ID, 2024)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBillingPeriodRepository_Integration(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := suite.Reset(t)
	repo := repository.NewBillingPeriodRepository(suite.DB)

	end, err := repo.LatestEndDate(ctx)
	require.NoError(t, err)
	assert.Nil(t, end)

	sp := createSalesPerson(t, ctx)
	lc := domain.Lifecycle{Created: time.Now().UTC(), CreatedBy: "hr", Version: uuid.New()}
	period := &domain.BillingPeriod{
		ID:        uuid.New(),
		StartDate: calendar.Date(2024, time.January, 1),
		EndDate:   calendar.Date(2024, time.January, 31),
		SalesPersons: []domain.BillingPeriodSalesPerson{{
			ID:            uuid.New(),
			SalesPersonID: sp.ID,
			Values: map[string]domain.BillingPeriodValue{
				domain.ValueBalance:       {Delta: -12.5, YTDFrom: 0, YTDTo: -12.5, FullYear: -80},
				domain.ValueExpectedHours: {Delta: 172, YTDTo: 172, FullYear: 2080},
			},
			Lifecycle: lc,
		}},
		Lifecycle: lc,
	}

	err = suite.DB.InTx(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, period)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, period.ID)
	require.NoError(t, err)
	assert.True(t, period.EndDate.Equal(got.EndDate))
	require.Len(t, got.SalesPersons, 1)
	assert.Equal(t, period.ID, got.SalesPersons[0].BillingPeriodID)
	assert.Equal(t, period.SalesPersons[0].Values, got.SalesPersons[0].Values)

	end, err = repo.LatestEndDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, end)
	assert.Equal(t, "2024-01-31", calendar.FormatDate(*end))

	list, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].SalesPersons)

	cleared, err := repo.ClearAll(ctx, "hr", time.Now().UTC(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	_, err = repo.GetByID(ctx, period.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
