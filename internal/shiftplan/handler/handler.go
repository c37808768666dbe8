// Package handler exposes the shiftplan services over HTTP.
package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/reporting"
)

// ReportService builds employee reports
type ReportService interface {
	GetReportsForAllEmployees(ctx context.Context, year, untilWeek int) ([]reporting.ShortEmployeeReport, error)
	GetReportForEmployee(ctx context.Context, salesPersonID uuid.UUID, year, untilWeek int) (*reporting.EmployeeReport, error)
	GetReportForEmployeeRange(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time, includeCarryover bool) (*reporting.EmployeeReport, error)
	GetWeek(ctx context.Context, year, week int) ([]reporting.ShortEmployeeReport, error)
}

// BillingPeriodService closes and lists billing periods
type BillingPeriodService interface {
	GetAll(ctx context.Context) ([]domain.BillingPeriod, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BillingPeriod, error)
	LatestEndDate(ctx context.Context) (*time.Time, error)
	BuildNewBillingPeriod(ctx context.Context, endDate time.Time) (*domain.BillingPeriod, error)
	BuildAndPersistBillingPeriodReport(ctx context.Context, endDate time.Time) (uuid.UUID, error)
	ClearAll(ctx context.Context) (int64, error)
}

// CarryoverService reads and maintains the yearly carryover ledger
type CarryoverService interface {
	Get(ctx context.Context, salesPersonID uuid.UUID, year int) (*domain.Carryover, error)
	Set(ctx context.Context, c *domain.Carryover) error
	RequestRecalculation(ctx context.Context, year int) error
}

// ExtraHoursService maintains extra hours entries and custom categories
type ExtraHoursService interface {
	FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time) ([]domain.ExtraHours, error)
	Create(ctx context.Context, eh *domain.ExtraHours) error
	Update(ctx context.Context, eh *domain.ExtraHours) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListCustom(ctx context.Context) ([]domain.CustomExtraHours, error)
	CreateCustom(ctx context.Context, c *domain.CustomExtraHours) error
}

// WorkingHoursService maintains employment contracts
type WorkingHoursService interface {
	FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID) ([]domain.WorkingHours, error)
	Create(ctx context.Context, w *domain.WorkingHours) error
	Update(ctx context.Context, w *domain.WorkingHours) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SpecialDayService maintains holidays and short days
type SpecialDayService interface {
	FindForWeek(ctx context.Context, year, week int) ([]domain.SpecialDay, error)
	Create(ctx context.Context, sd *domain.SpecialDay) error
	Delete(ctx context.Context, id uuid.UUID) error
}
