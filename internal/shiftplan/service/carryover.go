package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/events"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/permissions"
)

// CarryoverService maintains the yearly carryover ledger
type CarryoverService struct {
	carryovers CarryoverStore
	reports    *ReportingService
	perms      PermissionChecker
	publisher  *events.ShiftplanEventPublisher
	stamp      stamper
	logger     *logger.Logger
}

// NewCarryoverService creates a new carryover service
func NewCarryoverService(
	carryovers CarryoverStore,
	reports *ReportingService,
	perms PermissionChecker,
	publisher *events.ShiftplanEventPublisher,
	clock Clock,
	ids IDGenerator,
	log *logger.Logger,
) *CarryoverService {
	return &CarryoverService{
		carryovers: carryovers,
		reports:    reports,
		perms:      perms,
		publisher:  publisher,
		stamp:      stamper{clock: clock, ids: ids},
		logger:     log,
	}
}

// Get returns the carryover of a sales person for year, or nil when none was written
func (s *CarryoverService) Get(ctx context.Context, salesPersonID uuid.UUID, year int) (*domain.Carryover, error) {
	if err := s.perms.CheckSelfOr(ctx, salesPersonID.String(), permissions.HR); err != nil {
		return nil, err
	}
	return s.carryovers.Get(ctx, salesPersonID, year)
}

// Set upserts c. The last write wins.
func (s *CarryoverService) Set(ctx context.Context, c *domain.Carryover) error {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return err
	}
	return s.upsert(ctx, c)
}

// UpdateAllEmployees writes the carryover of year for every paid sales person:
// the balance at the end of the year and the unused vacation days. A failing
// sales person is logged and skipped. The returned count is the number of
// carryovers written.
func (s *CarryoverService) UpdateAllEmployees(ctx context.Context, year int) (int, error) {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return 0, err
	}

	w, err := yearWindow(year, lastISOWeek)
	if err != nil {
		return 0, err
	}
	persons, err := s.reports.paidSalesPersons(ctx)
	if err != nil {
		return 0, err
	}

	log := s.logger.WithComponent("carryover")
	written, failed := 0, 0
	for _, sp := range persons {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		report, err := s.reports.build(ctx, sp, w)
		if err == nil {
			err = s.upsert(ctx, &domain.Carryover{
				SalesPersonID:  sp.ID,
				Year:           year,
				CarryoverHours: report.BalanceHours,
				Vacation:       int(math.Round(float64(report.VacationEntitlement - report.VacationDays))),
			})
		}
		if err != nil {
			failed++
			log.WithSalesPerson(sp.ID.String()).Error().Err(err).
				Int("year", year).
				Msg("failed to update carryover")
			continue
		}
		written++
	}

	log.Info().
		Int("year", year).
		Int("written", written).
		Int("failed", failed).
		Msg("carryover update finished")

	if failed > 0 {
		return written, errors.Internal(fmt.Sprintf("carryover update for %d failed for %d of %d sales persons", year, failed, len(persons)))
	}
	return written, nil
}

// RequestRecalculation asks the carryover consumer to rebuild year. Without a
// broker the recalculation runs in the caller.
func (s *CarryoverService) RequestRecalculation(ctx context.Context, year int) error {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return err
	}
	if !s.publisher.Enabled() {
		_, err := s.UpdateAllEmployees(ctx, year)
		return err
	}
	return s.publisher.RequestCarryoverRecalculation(ctx, year, actor.FromContext(ctx).AuditName())
}

func (s *CarryoverService) upsert(ctx context.Context, c *domain.Carryover) error {
	existing, err := s.carryovers.Get(ctx, c.SalesPersonID, c.Year)
	if err != nil {
		return err
	}

	now := s.stamp.clock.Now()
	if existing != nil {
		c.Created, c.CreatedBy = existing.Created, existing.CreatedBy
	} else {
		c.Created, c.CreatedBy = now, actor.FromContext(ctx).AuditName()
	}
	c.Deleted, c.DeletedBy = nil, nil
	c.Version = s.stamp.ids.New()

	if err := s.carryovers.Upsert(ctx, c); err != nil {
		return err
	}
	s.publisher.PublishCarryoverUpdated(ctx, c)
	return nil
}

// lastISOWeek is clamped by YearWindow to the last week of the year.
const lastISOWeek = 53
