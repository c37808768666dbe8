package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/reporting"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/permissions"
	"golang.org/x/sync/errgroup"
)

// reportFanOut bounds how many sales persons are reported on concurrently.
const reportFanOut = 8

// ReportingService builds hour balance reports
type ReportingService struct {
	salesPersons SalesPersonStore
	contracts    WorkingHoursStore
	shiftplan    ShiftplanStore
	extraHours   ExtraHoursStore
	specialDays  SpecialDayStore
	carryovers   CarryoverStore
	engine       *reporting.Engine
	perms        PermissionChecker
	logger       *logger.Logger
}

// NewReportingService creates a new reporting service
func NewReportingService(
	salesPersons SalesPersonStore,
	contracts WorkingHoursStore,
	shiftplan ShiftplanStore,
	extraHours ExtraHoursStore,
	specialDays SpecialDayStore,
	carryovers CarryoverStore,
	engine *reporting.Engine,
	perms PermissionChecker,
	log *logger.Logger,
) *ReportingService {
	return &ReportingService{
		salesPersons: salesPersons,
		contracts:    contracts,
		shiftplan:    shiftplan,
		extraHours:   extraHours,
		specialDays:  specialDays,
		carryovers:   carryovers,
		engine:       engine,
		perms:        perms,
		logger:       log,
	}
}

// YearWindow returns Monday of ISO week 1 through Sunday of untilWeek.
// untilWeek is clamped to the weeks the year has.
func YearWindow(year, untilWeek int) (time.Time, time.Time, error) {
	if untilWeek < 1 {
		return time.Time{}, time.Time{}, errors.InvalidDate("calendar week must be at least 1")
	}
	if last := calendar.WeeksInYear(year); untilWeek > last {
		untilWeek = last
	}
	from, err := calendar.WeekDateToDate(year, 1, calendar.Monday)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := calendar.WeekDateToDate(year, untilWeek, calendar.Sunday)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// ============================================================================
// EXPOSED OPERATIONS
// ============================================================================

// GetReportsForAllEmployees returns the short report of every paid sales person
func (s *ReportingService) GetReportsForAllEmployees(ctx context.Context, year, untilWeek int) ([]reporting.ShortEmployeeReport, error) {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return nil, err
	}
	w, err := yearWindow(year, untilWeek)
	if err != nil {
		return nil, err
	}

	persons, err := s.paidSalesPersons(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]reporting.ShortEmployeeReport, len(persons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit(ctx, reportFanOut))
	for i := range persons {
		i := i
		g.Go(func() error {
			report, err := s.build(gctx, persons[i], w)
			if err != nil {
				return err
			}
			out[i] = report.Short()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("year", year).
		Int("until_week", untilWeek).
		Int("sales_persons", len(out)).
		Msg("built reports for all employees")

	return out, nil
}

// GetReportForEmployee returns the full report of one sales person for a year
// up to and including untilWeek, seeded with the previous year's carryover.
func (s *ReportingService) GetReportForEmployee(ctx context.Context, salesPersonID uuid.UUID, year, untilWeek int) (*reporting.EmployeeReport, error) {
	if err := s.perms.CheckSelfOr(ctx, salesPersonID.String(), permissions.HR); err != nil {
		return nil, err
	}
	w, err := yearWindow(year, untilWeek)
	if err != nil {
		return nil, err
	}

	sp, err := s.salesPersons.GetByID(ctx, salesPersonID)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, *sp, w)
}

// GetReportForEmployeeRange returns the full report for [from, to]. With
// includeCarryover the carryover of the year before from is added.
func (s *ReportingService) GetReportForEmployeeRange(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time, includeCarryover bool) (*reporting.EmployeeReport, error) {
	if err := s.perms.CheckSelfOr(ctx, salesPersonID.String(), permissions.HR); err != nil {
		return nil, err
	}

	sp, err := s.salesPersons.GetByID(ctx, salesPersonID)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, *sp, window{from: from, to: to, carryover: includeCarryover})
}

// GetWeek returns short reports, without carryover, of the sales persons who
// hold a contract in one ISO week.
func (s *ReportingService) GetWeek(ctx context.Context, year, week int) ([]reporting.ShortEmployeeReport, error) {
	if err := s.perms.Check(ctx, permissions.HR, permissions.ShiftPlanner); err != nil {
		return nil, err
	}

	target := calendar.Week{Year: year, Week: week}
	from, err := target.Date(calendar.Monday)
	if err != nil {
		return nil, err
	}
	to := from.AddDate(0, 0, 6)

	var (
		persons     []domain.SalesPerson
		contracts   []domain.WorkingHours
		booked      []domain.ShiftplanReportDay
		extra       []domain.ExtraHours
		specialDays []domain.SpecialDay
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit(ctx, 5))
	g.Go(func() (err error) { persons, err = s.salesPersons.GetAll(gctx); return })
	g.Go(func() (err error) { contracts, err = s.contracts.FindForWeek(gctx, year, week); return })
	g.Go(func() (err error) { booked, err = s.shiftplan.FindForWeek(gctx, year, week); return })
	g.Go(func() (err error) { extra, err = s.extraHours.FindInRange(gctx, from, to); return })
	g.Go(func() (err error) { specialDays, err = s.specialDays.FindForWeek(gctx, year, week); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	contractsBy := groupBySalesPerson(contracts, func(w domain.WorkingHours) uuid.UUID { return w.SalesPersonID })
	bookedBy := groupBySalesPerson(booked, func(d domain.ShiftplanReportDay) uuid.UUID { return d.SalesPersonID })
	extraBy := groupBySalesPerson(extra, func(e domain.ExtraHours) uuid.UUID { return e.SalesPersonID })

	out := make([]reporting.ShortEmployeeReport, 0, len(persons))
	for _, sp := range persons {
		if sp.IsDeleted() || len(contractsBy[sp.ID]) == 0 {
			continue
		}
		report, err := s.engine.Build(sp, reporting.Input{
			From:        from,
			To:          to,
			Contracts:   contractsBy[sp.ID],
			Shiftplan:   bookedBy[sp.ID],
			ExtraHours:  extraBy[sp.ID],
			SpecialDays: specialDays,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, report.Short())
	}
	return out, nil
}

// ============================================================================
// INTERNALS
// ============================================================================

// window is a report range. A year window covers ISO weeks of year; it reads
// carryover(year-1) and computes the vacation entitlement of year. Other
// windows use the calendar year of from for the carryover.
type window struct {
	from, to  time.Time
	year      int
	carryover bool
}

// yearWindow returns the ISO week window of year up to untilWeek with carryover
func yearWindow(year, untilWeek int) (window, error) {
	from, to, err := YearWindow(year, untilWeek)
	if err != nil {
		return window{}, err
	}
	return window{from: from, to: to, year: year, carryover: true}, nil
}

// build loads every input of one report concurrently and runs the engine.
// It performs no permission check.
func (s *ReportingService) build(ctx context.Context, sp domain.SalesPerson, w window) (*reporting.EmployeeReport, error) {
	from, to := calendar.Truncate(w.from), calendar.Truncate(w.to)
	if to.Before(from.AddDate(0, 0, -1)) {
		return nil, errors.DateOrderWrong(calendar.FormatDate(from), calendar.FormatDate(to))
	}
	carryoverYear := from.Year() - 1
	if w.year != 0 {
		carryoverYear = w.year - 1
	}

	in := reporting.Input{From: from, To: to, Year: w.year}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit(ctx, 5))
	g.Go(func() (err error) { in.Contracts, err = s.contracts.FindBySalesPerson(gctx, sp.ID); return })
	g.Go(func() (err error) { in.Shiftplan, err = s.shiftplan.FindBySalesPerson(gctx, sp.ID, from, to); return })
	g.Go(func() (err error) { in.ExtraHours, err = s.extraHours.FindBySalesPerson(gctx, sp.ID, from, to); return })
	g.Go(func() (err error) { in.SpecialDays, err = s.specialDays.FindRange(gctx, from, to); return })
	if w.carryover {
		g.Go(func() (err error) { in.Carryover, err = s.carryovers.Get(gctx, sp.ID, carryoverYear); return })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.engine.Build(sp, in)
}

// paidSalesPersons returns the live, paid sales persons ordered by name
func (s *ReportingService) paidSalesPersons(ctx context.Context) ([]domain.SalesPerson, error) {
	all, err := s.salesPersons.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	paid := make([]domain.SalesPerson, 0, len(all))
	for _, sp := range all {
		if sp.IsPaid && !sp.IsDeleted() {
			paid = append(paid, sp)
		}
	}
	sort.SliceStable(paid, func(i, j int) bool { return paid[i].Name < paid[j].Name })
	return paid, nil
}

func groupBySalesPerson[T any](items []T, key func(T) uuid.UUID) map[uuid.UUID][]T {
	out := make(map[uuid.UUID][]T)
	for _, item := range items {
		k := key(item)
		out[k] = append(out[k], item)
	}
	return out
}
