package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/permissions"
)

// WorkingHoursService maintains employment contracts
type WorkingHoursService struct {
	contracts WorkingHoursStore
	perms     PermissionChecker
	stamp     stamper
	logger    *logger.Logger
}

// NewWorkingHoursService creates a new working hours service
func NewWorkingHoursService(contracts WorkingHoursStore, perms PermissionChecker, clock Clock, ids IDGenerator, log *logger.Logger) *WorkingHoursService {
	return &WorkingHoursService{
		contracts: contracts,
		perms:     perms,
		stamp:     stamper{clock: clock, ids: ids},
		logger:    log,
	}
}

// FindBySalesPerson returns the live contracts of a sales person
func (s *WorkingHoursService) FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID) ([]domain.WorkingHours, error) {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return nil, err
	}
	return s.contracts.FindBySalesPerson(ctx, salesPersonID)
}

// Create stores a new contract
func (s *WorkingHoursService) Create(ctx context.Context, w *domain.WorkingHours) error {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return err
	}
	if err := validateContract(w); err != nil {
		return err
	}

	id, lifecycle, err := s.stamp.create(ctx, w.ID, w.Lifecycle)
	if err != nil {
		return err
	}
	w.ID, w.Lifecycle = id, lifecycle

	if err := s.contracts.Create(ctx, w); err != nil {
		return err
	}

	s.logger.Info().
		Str("working_hours_id", w.ID.String()).
		Str("sales_person_id", w.SalesPersonID.String()).
		Str("from", w.From().String()).
		Str("to", w.To().String()).
		Msg("contract created")
	return nil
}

// Update rewrites a contract. w.Version must equal the stored version.
func (s *WorkingHoursService) Update(ctx context.Context, w *domain.WorkingHours) error {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return err
	}
	if err := validateContract(w); err != nil {
		return err
	}

	stored, err := s.contracts.GetByID(ctx, w.ID)
	if err != nil {
		return err
	}
	lifecycle, err := s.stamp.update(w.ID, w.Lifecycle, stored.Lifecycle)
	if err != nil {
		return err
	}
	w.SalesPersonID = stored.SalesPersonID
	w.Lifecycle = lifecycle

	return s.contracts.Update(ctx, w, stored.Version)
}

// Delete soft deletes a contract
func (s *WorkingHoursService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return err
	}

	stored, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if stored.IsDeleted() {
		return errors.EntityNotFound("working hours", id)
	}

	deleted := *stored
	deleted.Lifecycle = s.stamp.delete(ctx, stored.Lifecycle)
	if err := s.contracts.Update(ctx, &deleted, stored.Version); err != nil {
		return err
	}

	s.logger.Info().Str("working_hours_id", id.String()).Msg("contract deleted")
	return nil
}

func validateContract(w *domain.WorkingHours) error {
	details := map[string]string{}
	if w.SalesPersonID == uuid.Nil {
		details["sales_person_id"] = "this field is required"
	}
	if w.ExpectedHours < 0 {
		details["expected_hours"] = "must not be negative"
	}
	switch {
	case w.WorkdayCount() == 0:
		details["weekdays"] = "at least one weekday must be set"
	case w.WorkdaysPerWeek < 1 || w.WorkdaysPerWeek > 7:
		details["workdays_per_week"] = "must be between 1 and 7"
	case w.WorkdaysPerWeek != w.WorkdayCount():
		// the hours per day divide by workdays_per_week, so it must match the flags
		details["workdays_per_week"] = "must equal the number of weekdays set"
	}
	if w.VacationDays < 0 {
		details["vacation_days"] = "must not be negative"
	}
	if !w.From().Valid() {
		details["from_calendar_week"] = "not a week of from_year"
	}
	if !w.To().Valid() {
		details["to_calendar_week"] = "not a week of to_year"
	}
	for field, d := range map[string]calendar.DayOfWeek{"from_day_of_week": w.FromDayOfWeek, "to_day_of_week": w.ToDayOfWeek} {
		if d != 0 && !d.Valid() {
			details[field] = "must be between 1 and 7"
		}
	}
	if len(details) > 0 {
		return errors.Validation(details)
	}

	from, err := w.FromDate()
	if err != nil {
		return err
	}
	to, err := w.ToDate()
	if err != nil {
		return err
	}
	if to.Before(from) {
		return errors.DateOrderWrong(calendar.FormatDate(from), calendar.FormatDate(to))
	}
	return nil
}
