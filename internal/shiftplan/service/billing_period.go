package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/events"
	"github.com/shifty/shifty-backend/internal/shiftplan/reporting"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/permissions"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// billingValuePlaces is the precision frozen billing values are rounded to.
const billingValuePlaces = 2

// DefaultFirstPeriodStart is where the first billing period begins.
var DefaultFirstPeriodStart = calendar.Date(2020, time.January, 1)

// BillingPeriodService closes reporting windows into immutable billing periods
type BillingPeriodService struct {
	periods          BillingPeriodStore
	reports          *ReportingService
	tx               Transactor
	perms            PermissionChecker
	publisher        *events.ShiftplanEventPublisher
	stamp            stamper
	firstPeriodStart time.Time
	logger           *logger.Logger
}

// NewBillingPeriodService creates a new billing period service
func NewBillingPeriodService(
	periods BillingPeriodStore,
	reports *ReportingService,
	tx Transactor,
	perms PermissionChecker,
	publisher *events.ShiftplanEventPublisher,
	clock Clock,
	ids IDGenerator,
	firstPeriodStart time.Time,
	log *logger.Logger,
) *BillingPeriodService {
	if firstPeriodStart.IsZero() {
		firstPeriodStart = DefaultFirstPeriodStart
	}
	return &BillingPeriodService{
		periods:          periods,
		reports:          reports,
		tx:               tx,
		perms:            perms,
		publisher:        publisher,
		stamp:            stamper{clock: clock, ids: ids},
		firstPeriodStart: calendar.Truncate(firstPeriodStart),
		logger:           log,
	}
}

// GetAll returns every live billing period without values, newest first
func (s *BillingPeriodService) GetAll(ctx context.Context) ([]domain.BillingPeriod, error) {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return nil, err
	}
	return s.periods.GetAll(ctx)
}

// GetByID returns a billing period with the values of every sales person
func (s *BillingPeriodService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillingPeriod, error) {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return nil, err
	}
	return s.periods.GetByID(ctx, id)
}

// LatestEndDate returns the end of the newest billing period, or nil
func (s *BillingPeriodService) LatestEndDate(ctx context.Context) (*time.Time, error) {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return nil, err
	}
	return s.periods.LatestEndDate(ctx)
}

// BuildNewBillingPeriod computes the period following the latest one up to
// endDate without storing it.
func (s *BillingPeriodService) BuildNewBillingPeriod(ctx context.Context, endDate time.Time) (*domain.BillingPeriod, error) {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return nil, err
	}
	return s.build(ctx, calendar.Truncate(endDate))
}

// BuildAndPersistBillingPeriodReport computes the next period and stores it in
// one transaction. It returns the new period's id.
func (s *BillingPeriodService) BuildAndPersistBillingPeriodReport(ctx context.Context, endDate time.Time) (uuid.UUID, error) {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return uuid.Nil, err
	}

	var period *domain.BillingPeriod
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		period, err = s.build(ctx, calendar.Truncate(endDate))
		if err != nil {
			return err
		}
		return s.periods.Create(ctx, period)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info().
		Str("billing_period_id", period.ID.String()).
		Str("start_date", calendar.FormatDate(period.StartDate)).
		Str("end_date", calendar.FormatDate(period.EndDate)).
		Int("sales_persons", len(period.SalesPersons)).
		Msg("billing period created")

	s.publisher.PublishBillingPeriodCreated(ctx, period)
	return period.ID, nil
}

// ClearAll soft deletes every billing period and returns how many were cleared
func (s *BillingPeriodService) ClearAll(ctx context.Context) (int64, error) {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return 0, err
	}

	by := actor.FromContext(ctx).AuditName()
	cleared, err := s.periods.ClearAll(ctx, by, s.stamp.clock.Now(), s.stamp.ids.New())
	if err != nil {
		return 0, err
	}

	s.logger.Warn().Int64("cleared", cleared).Str("cleared_by", by).Msg("billing periods cleared")
	s.publisher.PublishBillingPeriodsCleared(ctx, cleared, by)
	return cleared, nil
}

// ============================================================================
// INTERNALS
// ============================================================================

func (s *BillingPeriodService) build(ctx context.Context, end time.Time) (*domain.BillingPeriod, error) {
	start := s.firstPeriodStart
	latest, err := s.periods.LatestEndDate(ctx)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		last := calendar.Truncate(*latest)
		if !end.After(last) {
			return nil, errors.DateOrderWrong(calendar.FormatDate(last), calendar.FormatDate(end))
		}
		start = last.AddDate(0, 0, 1)
	}
	if end.Before(start) {
		return nil, errors.DateOrderWrong(calendar.FormatDate(start), calendar.FormatDate(end))
	}

	persons, err := s.reports.paidSalesPersons(ctx)
	if err != nil {
		return nil, err
	}

	id, lifecycle, err := s.stamp.create(ctx, uuid.Nil, domain.Lifecycle{})
	if err != nil {
		return nil, err
	}
	period := &domain.BillingPeriod{
		ID:           id,
		StartDate:    start,
		EndDate:      end,
		SalesPersons: make([]domain.BillingPeriodSalesPerson, len(persons)),
		Lifecycle:    lifecycle,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit(ctx, reportFanOut))
	for i := range persons {
		i := i
		g.Go(func() error {
			values, err := s.valuesFor(gctx, persons[i], start, end)
			if err != nil {
				return err
			}
			period.SalesPersons[i] = domain.BillingPeriodSalesPerson{
				ID:              s.stamp.ids.New(),
				BillingPeriodID: period.ID,
				SalesPersonID:   persons[i].ID,
				Values:          values,
				Lifecycle:       lifecycle,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return period, nil
}

// valuesFor freezes the figures of one sales person. Delta covers the period
// itself, the year-to-date windows end the day before start and at end, and
// full year covers the whole year of end. Only delta excludes the carryover.
func (s *BillingPeriodService) valuesFor(ctx context.Context, sp domain.SalesPerson, start, end time.Time) (map[string]domain.BillingPeriodValue, error) {
	windows := [4]window{
		{from: start, to: end},
		{from: calendar.FirstDayOfYear(start.Year()), to: start.AddDate(0, 0, -1), carryover: true},
		{from: calendar.FirstDayOfYear(end.Year()), to: end, carryover: true},
		{from: calendar.FirstDayOfYear(end.Year()), to: calendar.LastDayOfYear(end.Year()), carryover: true},
	}

	var reports [4]*reporting.EmployeeReport
	for i, w := range windows {
		r, err := s.reports.build(ctx, sp, w)
		if err != nil {
			return nil, err
		}
		reports[i] = r
	}

	values := make(map[string]domain.BillingPeriodValue)
	set := func(valueType string, figure func(*reporting.EmployeeReport) float32) {
		values[valueType] = domain.BillingPeriodValue{
			Delta:    roundValue(figure(reports[0])),
			YTDFrom:  roundValue(figure(reports[1])),
			YTDTo:    roundValue(figure(reports[2])),
			FullYear: roundValue(figure(reports[3])),
		}
	}

	set(domain.ValueBalance, func(r *reporting.EmployeeReport) float32 { return r.BalanceHours })
	set(domain.ValueOverall, func(r *reporting.EmployeeReport) float32 { return r.OverallHours })
	set(domain.ValueExpectedHours, func(r *reporting.EmployeeReport) float32 { return r.ExpectedHours })
	set(domain.ValueExtraWork, func(r *reporting.EmployeeReport) float32 { return r.ExtraWorkHours })
	set(domain.ValueVacationHours, func(r *reporting.EmployeeReport) float32 { return r.VacationHours })
	set(domain.ValueSickLeave, func(r *reporting.EmployeeReport) float32 { return r.SickLeaveHours })
	set(domain.ValueHoliday, func(r *reporting.EmployeeReport) float32 { return r.HolidayHours })
	set(domain.ValueVacationDays, func(r *reporting.EmployeeReport) float32 { return r.VacationDays })
	set(domain.ValueVacationEntitlement, func(r *reporting.EmployeeReport) float32 { return r.VacationEntitlement })

	for _, r := range reports {
		for _, c := range r.CustomExtraHours {
			name := c.Name
			if _, ok := values[domain.ValueCustomPrefix+name]; ok {
				continue
			}
			set(domain.ValueCustomPrefix+name, func(r *reporting.EmployeeReport) float32 { return r.CustomHours(name) })
		}
	}
	return values, nil
}

func roundValue(v float32) float32 {
	return float32(decimal.NewFromFloat32(v).Round(billingValuePlaces).InexactFloat64())
}
