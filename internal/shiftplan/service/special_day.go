package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/reporting"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/permissions"
)

// SpecialDayService maintains holidays and short days
type SpecialDayService struct {
	specialDays SpecialDayStore
	workday     reporting.Workday
	perms       PermissionChecker
	stamp       stamper
	logger      *logger.Logger
}

// NewSpecialDayService creates a new special day service. Short day cutoffs
// must fall inside workday.
func NewSpecialDayService(specialDays SpecialDayStore, workday reporting.Workday, perms PermissionChecker, clock Clock, ids IDGenerator, log *logger.Logger) *SpecialDayService {
	return &SpecialDayService{
		specialDays: specialDays,
		workday:     workday,
		perms:       perms,
		stamp:       stamper{clock: clock, ids: ids},
		logger:      log,
	}
}

// FindForWeek returns the special days of an ISO week
func (s *SpecialDayService) FindForWeek(ctx context.Context, year, week int) ([]domain.SpecialDay, error) {
	if err := s.perms.Check(ctx, permissions.HR, permissions.ShiftPlanner, permissions.Sales); err != nil {
		return nil, err
	}
	if !(calendar.Week{Year: year, Week: week}).Valid() {
		return nil, errors.InvalidDate("calendar week does not exist in year")
	}
	return s.specialDays.FindForWeek(ctx, year, week)
}

// Create stores a new special day
func (s *SpecialDayService) Create(ctx context.Context, sd *domain.SpecialDay) error {
	if err := s.perms.Check(ctx, permissions.ShiftPlanner, permissions.HR); err != nil {
		return err
	}
	if err := s.validate(sd); err != nil {
		return err
	}

	id, lifecycle, err := s.stamp.create(ctx, sd.ID, sd.Lifecycle)
	if err != nil {
		return err
	}
	sd.ID, sd.Lifecycle = id, lifecycle

	if err := s.specialDays.Create(ctx, sd); err != nil {
		return err
	}

	s.logger.Info().
		Str("special_day_id", sd.ID.String()).
		Str("day_type", string(sd.DayType)).
		Int("year", sd.Year).
		Int("calendar_week", sd.CalendarWeek).
		Str("day_of_week", sd.DayOfWeek.String()).
		Msg("special day created")
	return nil
}

// Delete soft deletes a special day
func (s *SpecialDayService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.perms.Check(ctx, permissions.ShiftPlanner, permissions.HR); err != nil {
		return err
	}

	stored, err := s.specialDays.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if stored.IsDeleted() {
		return errors.EntityNotFound("special day", id)
	}

	deleted := *stored
	deleted.Lifecycle = s.stamp.delete(ctx, stored.Lifecycle)
	return s.specialDays.SoftDelete(ctx, &deleted, stored.Version)
}

func (s *SpecialDayService) validate(sd *domain.SpecialDay) error {
	if _, err := sd.Date(); err != nil {
		return err
	}

	switch sd.DayType {
	case domain.SpecialDayHoliday:
		sd.TimeOfDay = nil
	case domain.SpecialDayShortDay:
		if cutoff := sd.TimeOfDay; cutoff != nil {
			if cutoff.Before(s.workday.Start) {
				return errors.TimeOrderWrong(s.workday.Start.String(), cutoff.String())
			}
			if s.workday.End.Before(*cutoff) {
				return errors.TimeOrderWrong(cutoff.String(), s.workday.End.String())
			}
		}
	default:
		return errors.Validation(map[string]string{"day_type": "must be holiday or short_day"})
	}
	return nil
}
