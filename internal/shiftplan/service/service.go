// Package service holds the shiftplan use cases. Every exported method checks
// privileges first and then delegates to the stores and the reporting engine.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/database"
	"github.com/shifty/shifty-backend/pkg/errors"
)

// ============================================================================
// COLLABORATORS
// ============================================================================

// SalesPersonStore reads sales persons
type SalesPersonStore interface {
	GetAll(ctx context.Context) ([]domain.SalesPerson, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesPerson, error)
}

// WorkingHoursStore persists contracts
type WorkingHoursStore interface {
	FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID) ([]domain.WorkingHours, error)
	FindForWeek(ctx context.Context, year, week int) ([]domain.WorkingHours, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkingHours, error)
	Create(ctx context.Context, w *domain.WorkingHours) error
	Update(ctx context.Context, w *domain.WorkingHours, expectedVersion uuid.UUID) error
}

// ShiftplanStore reads booked hours
type ShiftplanStore interface {
	FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time) ([]domain.ShiftplanReportDay, error)
	FindForWeek(ctx context.Context, year, week int) ([]domain.ShiftplanReportDay, error)
}

// ExtraHoursStore persists extra hours and custom categories
type ExtraHoursStore interface {
	FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time) ([]domain.ExtraHours, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]domain.ExtraHours, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtraHours, error)
	Create(ctx context.Context, eh *domain.ExtraHours) error
	Update(ctx context.Context, eh *domain.ExtraHours, expectedVersion uuid.UUID) error
	ListCustom(ctx context.Context) ([]domain.CustomExtraHours, error)
	GetCustom(ctx context.Context, id uuid.UUID) (*domain.CustomExtraHours, error)
	CreateCustom(ctx context.Context, c *domain.CustomExtraHours) error
}

// SpecialDayStore persists holidays and short days
type SpecialDayStore interface {
	FindForWeek(ctx context.Context, year, week int) ([]domain.SpecialDay, error)
	FindRange(ctx context.Context, from, to time.Time) ([]domain.SpecialDay, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SpecialDay, error)
	Create(ctx context.Context, sd *domain.SpecialDay) error
	SoftDelete(ctx context.Context, sd *domain.SpecialDay, expectedVersion uuid.UUID) error
}

// CarryoverStore persists yearly carryovers
type CarryoverStore interface {
	Get(ctx context.Context, salesPersonID uuid.UUID, year int) (*domain.Carryover, error)
	Upsert(ctx context.Context, c *domain.Carryover) error
}

// BillingPeriodStore persists billing periods
type BillingPeriodStore interface {
	GetAll(ctx context.Context) ([]domain.BillingPeriod, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BillingPeriod, error)
	LatestEndDate(ctx context.Context) (*time.Time, error)
	Create(ctx context.Context, p *domain.BillingPeriod) error
	ClearAll(ctx context.Context, deletedBy string, deleted time.Time, version uuid.UUID) (int64, error)
}

// Transactor runs fn inside one transaction carried by its context
type Transactor interface {
	InTx(ctx context.Context, fn func(context.Context) error) error
}

// PermissionChecker gates every exported operation
type PermissionChecker interface {
	Check(ctx context.Context, privileges ...string) error
	CheckSelfOr(ctx context.Context, salesPersonID string, privileges ...string) error
}

// Clock supplies timestamps for entity stamping
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies ids and versions
type IDGenerator interface {
	New() uuid.UUID
}

// SystemClock is the wall clock in UTC
type SystemClock struct{}

// Now returns the current time in UTC
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator generates random v4 UUIDs
type UUIDGenerator struct{}

// New returns a fresh UUID
func (UUIDGenerator) New() uuid.UUID { return uuid.New() }

// ============================================================================
// LIFECYCLE HELPERS
// ============================================================================

// stamper fills the lifecycle fields of new, updated and deleted entities.
type stamper struct {
	clock Clock
	ids   IDGenerator
}

// create rejects caller supplied ids and versions and returns a fresh id and lifecycle.
func (s stamper) create(ctx context.Context, id uuid.UUID, l domain.Lifecycle) (uuid.UUID, domain.Lifecycle, error) {
	if id != uuid.Nil {
		return uuid.Nil, l, errors.IDSetOnCreate()
	}
	if l.Version != uuid.Nil {
		return uuid.Nil, l, errors.VersionSetOnCreate()
	}
	return s.ids.New(), domain.Lifecycle{
		Created:   s.clock.Now(),
		CreatedBy: actor.FromContext(ctx).AuditName(),
		Version:   s.ids.New(),
	}, nil
}

// update checks the caller's version against the stored one and carries the
// creation stamp over. It returns the lifecycle with a fresh version.
func (s stamper) update(id uuid.UUID, given domain.Lifecycle, stored domain.Lifecycle) (domain.Lifecycle, error) {
	if stored.IsDeleted() {
		return given, errors.EntityNotFound("entity", id)
	}
	if given.Version != stored.Version {
		return given, errors.EntityConflicts(id, given.Version, stored.Version)
	}
	next := stored
	next.Version = s.ids.New()
	return next, nil
}

// delete marks stored deleted with a fresh version
func (s stamper) delete(ctx context.Context, stored domain.Lifecycle) domain.Lifecycle {
	now := s.clock.Now()
	by := actor.FromContext(ctx).AuditName()
	stored.Deleted = &now
	stored.DeletedBy = &by
	stored.Version = s.ids.New()
	return stored
}

// fanOutLimit bounds concurrent reads. Under a transaction every query shares
// one connection, so reads run one at a time.
func fanOutLimit(ctx context.Context, n int) int {
	if database.InTransaction(ctx) {
		return 1
	}
	return n
}
