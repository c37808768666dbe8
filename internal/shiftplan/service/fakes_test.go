package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/events"
	"github.com/shifty/shifty-backend/internal/shiftplan/reporting"
	"github.com/shifty/shifty-backend/internal/shiftplan/service"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/permissions"
	"github.com/shifty/shifty-backend/pkg/testutil"
)

// ============================================================================
// IN-MEMORY STORES
// ============================================================================

type fakeSalesPersons struct {
	mu    sync.Mutex
	items []domain.SalesPerson
	err   error
}

func (f *fakeSalesPersons) GetAll(ctx context.Context) ([]domain.SalesPerson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.SalesPerson(nil), f.items...), nil
}

func (f *fakeSalesPersons) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesPerson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sp := range f.items {
		if sp.ID == id && !sp.IsDeleted() {
			sp := sp
			return &sp, nil
		}
	}
	return nil, errors.EntityNotFound("sales person", id)
}

type fakeContracts struct {
	mu    sync.Mutex
	items []domain.WorkingHours
}

func (f *fakeContracts) FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID) ([]domain.WorkingHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.WorkingHours
	for _, w := range f.items {
		if w.SalesPersonID == salesPersonID && !w.IsDeleted() {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeContracts) FindForWeek(ctx context.Context, year, week int) ([]domain.WorkingHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.WorkingHours
	for _, w := range f.items {
		if !w.IsDeleted() && w.CoversWeek(calendar.Week{Year: year, Week: week}) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeContracts) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkingHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.items {
		if w.ID == id {
			w := w
			return &w, nil
		}
	}
	return nil, errors.EntityNotFound("working hours", id)
}

func (f *fakeContracts) Create(ctx context.Context, w *domain.WorkingHours) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, *w)
	return nil
}

func (f *fakeContracts) Update(ctx context.Context, w *domain.WorkingHours, expectedVersion uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == w.ID && f.items[i].Version == expectedVersion {
			f.items[i] = *w
			return nil
		}
	}
	return errors.Conflict("working hours was modified concurrently or does not exist")
}

type fakeShiftplan struct {
	items []domain.ShiftplanReportDay
}

func (f *fakeShiftplan) FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time) ([]domain.ShiftplanReportDay, error) {
	var out []domain.ShiftplanReportDay
	for _, d := range f.items {
		date, err := d.Date()
		if err != nil {
			return nil, err
		}
		if d.SalesPersonID == salesPersonID && !date.Before(from) && !date.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeShiftplan) FindForWeek(ctx context.Context, year, week int) ([]domain.ShiftplanReportDay, error) {
	var out []domain.ShiftplanReportDay
	for _, d := range f.items {
		if d.Year == year && d.CalendarWeek == week {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeExtraHours struct {
	mu     sync.Mutex
	items  []domain.ExtraHours
	custom []domain.CustomExtraHours
}

func (f *fakeExtraHours) FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time) ([]domain.ExtraHours, error) {
	all, _ := f.FindInRange(ctx, from, to)
	var out []domain.ExtraHours
	for _, eh := range all {
		if eh.SalesPersonID == salesPersonID {
			out = append(out, eh)
		}
	}
	return out, nil
}

func (f *fakeExtraHours) FindInRange(ctx context.Context, from, to time.Time) ([]domain.ExtraHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ExtraHours
	for _, eh := range f.items {
		d := eh.Date()
		if !eh.IsDeleted() && !d.Before(from) && !d.After(to) {
			out = append(out, eh)
		}
	}
	return out, nil
}

func (f *fakeExtraHours) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtraHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, eh := range f.items {
		if eh.ID == id {
			eh := eh
			return &eh, nil
		}
	}
	return nil, errors.EntityNotFound("extra hours", id)
}

func (f *fakeExtraHours) Create(ctx context.Context, eh *domain.ExtraHours) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, *eh)
	return nil
}

func (f *fakeExtraHours) Update(ctx context.Context, eh *domain.ExtraHours, expectedVersion uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == eh.ID && f.items[i].Version == expectedVersion {
			f.items[i] = *eh
			return nil
		}
	}
	return errors.Conflict("extra hours was modified concurrently or does not exist")
}

func (f *fakeExtraHours) ListCustom(ctx context.Context) ([]domain.CustomExtraHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.CustomExtraHours(nil), f.custom...), nil
}

func (f *fakeExtraHours) GetCustom(ctx context.Context, id uuid.UUID) (*domain.CustomExtraHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.custom {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, errors.EntityNotFound("custom extra hours", id)
}

func (f *fakeExtraHours) CreateCustom(ctx context.Context, c *domain.CustomExtraHours) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.custom = append(f.custom, *c)
	return nil
}

type fakeSpecialDays struct {
	mu    sync.Mutex
	items []domain.SpecialDay
}

func (f *fakeSpecialDays) FindForWeek(ctx context.Context, year, week int) ([]domain.SpecialDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SpecialDay
	for _, sd := range f.items {
		if !sd.IsDeleted() && sd.Year == year && sd.CalendarWeek == week {
			out = append(out, sd)
		}
	}
	return out, nil
}

func (f *fakeSpecialDays) FindRange(ctx context.Context, from, to time.Time) ([]domain.SpecialDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SpecialDay
	for _, sd := range f.items {
		d, err := sd.Date()
		if err != nil {
			return nil, err
		}
		if !sd.IsDeleted() && !d.Before(from) && !d.After(to) {
			out = append(out, sd)
		}
	}
	return out, nil
}

func (f *fakeSpecialDays) GetByID(ctx context.Context, id uuid.UUID) (*domain.SpecialDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sd := range f.items {
		if sd.ID == id {
			sd := sd
			return &sd, nil
		}
	}
	return nil, errors.EntityNotFound("special day", id)
}

func (f *fakeSpecialDays) Create(ctx context.Context, sd *domain.SpecialDay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, *sd)
	return nil
}

func (f *fakeSpecialDays) SoftDelete(ctx context.Context, sd *domain.SpecialDay, expectedVersion uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == sd.ID && f.items[i].Version == expectedVersion {
			f.items[i].Lifecycle = sd.Lifecycle
			return nil
		}
	}
	return errors.Conflict("special day was modified concurrently or does not exist")
}

type carryoverKey struct {
	salesPersonID uuid.UUID
	year          int
}

type fakeCarryovers struct {
	mu      sync.Mutex
	items   map[carryoverKey]domain.Carryover
	failFor uuid.UUID
}

func (f *fakeCarryovers) Get(ctx context.Context, salesPersonID uuid.UUID, year int) (*domain.Carryover, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[carryoverKey{salesPersonID, year}]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCarryovers) Upsert(ctx context.Context, c *domain.Carryover) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.SalesPersonID == f.failFor {
		return errors.DatabaseQuery(context.DeadlineExceeded)
	}
	if f.items == nil {
		f.items = make(map[carryoverKey]domain.Carryover)
	}
	f.items[carryoverKey{c.SalesPersonID, c.Year}] = *c
	return nil
}

type fakeBillingPeriods struct {
	mu    sync.Mutex
	items []domain.BillingPeriod
}

func (f *fakeBillingPeriods) GetAll(ctx context.Context) ([]domain.BillingPeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.BillingPeriod
	for _, p := range f.items {
		if !p.IsDeleted() {
			p.SalesPersons = nil
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (f *fakeBillingPeriods) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillingPeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id && !p.IsDeleted() {
			p := p
			return &p, nil
		}
	}
	return nil, errors.EntityNotFound("billing period", id)
}

func (f *fakeBillingPeriods) LatestEndDate(ctx context.Context) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *time.Time
	for _, p := range f.items {
		if p.IsDeleted() {
			continue
		}
		if latest == nil || p.EndDate.After(*latest) {
			end := p.EndDate
			latest = &end
		}
	}
	return latest, nil
}

func (f *fakeBillingPeriods) Create(ctx context.Context, p *domain.BillingPeriod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, *p)
	return nil
}

func (f *fakeBillingPeriods) ClearAll(ctx context.Context, deletedBy string, deleted time.Time, version uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.items {
		if f.items[i].IsDeleted() {
			continue
		}
		f.items[i].Deleted = &deleted
		f.items[i].DeletedBy = &deletedBy
		f.items[i].Version = version
		n++
	}
	return n, nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) InTx(ctx context.Context, fn func(context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// ============================================================================
// WIRING
// ============================================================================

type env struct {
	fixtures     *testutil.FixtureFactory
	salesPersons *fakeSalesPersons
	contracts    *fakeContracts
	shiftplan    *fakeShiftplan
	extraHours   *fakeExtraHours
	specialDays  *fakeSpecialDays
	carryovers   *fakeCarryovers
	periods      *fakeBillingPeriods
	tx           *fakeTx
	events       *testutil.MockPublisher
	clock        fixedClock

	reports      *service.ReportingService
	carryover    *service.CarryoverService
	billing      *service.BillingPeriodService
	extra        *service.ExtraHoursService
	workingHours *service.WorkingHoursService
	special      *service.SpecialDayService
}

// newEnv wires every service against in-memory stores. With withBroker the
// event publisher records events, otherwise it drops them.
func newEnv(t *testing.T, withBroker bool) *env {
	t.Helper()
	log := logger.Nop()
	e := &env{
		fixtures:     testutil.NewFixtureFactory(),
		salesPersons: &fakeSalesPersons{},
		contracts:    &fakeContracts{},
		shiftplan:    &fakeShiftplan{},
		extraHours:   &fakeExtraHours{},
		specialDays:  &fakeSpecialDays{},
		carryovers:   &fakeCarryovers{},
		periods:      &fakeBillingPeriods{},
		tx:           &fakeTx{},
		events:       testutil.NewMockPublisher(),
		clock:        fixedClock{now: time.Date(2025, time.January, 2, 3, 0, 0, 0, time.UTC)},
	}

	var publisher *events.ShiftplanEventPublisher
	if withBroker {
		publisher = events.New(e.events, log)
	} else {
		publisher = events.New(nil, log)
	}

	perms := permissions.NewChecker()
	ids := service.UUIDGenerator{}
	engine := reporting.NewEngine(reporting.DefaultWorkday)

	e.reports = service.NewReportingService(e.salesPersons, e.contracts, e.shiftplan, e.extraHours, e.specialDays, e.carryovers, engine, perms, log)
	e.carryover = service.NewCarryoverService(e.carryovers, e.reports, perms, publisher, e.clock, ids, log)
	e.billing = service.NewBillingPeriodService(e.periods, e.reports, e.tx, perms, publisher, e.clock, ids, time.Time{}, log)
	e.extra = service.NewExtraHoursService(e.extraHours, perms, publisher, e.clock, ids, log)
	e.workingHours = service.NewWorkingHoursService(e.contracts, perms, e.clock, ids, log)
	e.special = service.NewSpecialDayService(e.specialDays, reporting.DefaultWorkday, perms, e.clock, ids, log)
	return e
}

func (e *env) addSalesPerson(opts ...func(*domain.SalesPerson)) domain.SalesPerson {
	sp := e.fixtures.SalesPerson(opts...)
	e.salesPersons.items = append(e.salesPersons.items, sp)
	return sp
}

func (e *env) addContract(salesPersonID uuid.UUID, opts ...func(*domain.WorkingHours)) domain.WorkingHours {
	w := e.fixtures.Contract(salesPersonID, opts...)
	e.contracts.items = append(e.contracts.items, w)
	return w
}

func hrCtx() context.Context {
	return actor.WithActor(context.Background(), &actor.Actor{ID: uuid.NewString(), Name: "hr", Privileges: []string{permissions.HR}})
}

func plannerCtx() context.Context {
	return actor.WithActor(context.Background(), &actor.Actor{ID: uuid.NewString(), Name: "planner", Privileges: []string{permissions.ShiftPlanner}})
}

func selfCtx(salesPersonID uuid.UUID) context.Context {
	return actor.WithActor(context.Background(), &actor.Actor{
		ID:            uuid.NewString(),
		Name:          "self",
		SalesPersonID: salesPersonID.String(),
		Privileges:    []string{permissions.Sales},
	})
}

func weekDate(t *testing.T, year, week int, d calendar.DayOfWeek) time.Time {
	t.Helper()
	date, err := calendar.WeekDateToDate(year, week, d)
	if err != nil {
		t.Fatalf("week date: %v", err)
	}
	return date
}
