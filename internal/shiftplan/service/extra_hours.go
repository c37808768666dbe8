package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/internal/shiftplan/events"
	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/messaging"
	"github.com/shifty/shifty-backend/pkg/permissions"
)

// ExtraHoursService handles extra hours entries and custom categories
type ExtraHoursService struct {
	extraHours ExtraHoursStore
	perms      PermissionChecker
	publisher  *events.ShiftplanEventPublisher
	stamp      stamper
	logger     *logger.Logger
}

// NewExtraHoursService creates a new extra hours service
func NewExtraHoursService(
	extraHours ExtraHoursStore,
	perms PermissionChecker,
	publisher *events.ShiftplanEventPublisher,
	clock Clock,
	ids IDGenerator,
	log *logger.Logger,
) *ExtraHoursService {
	return &ExtraHoursService{
		extraHours: extraHours,
		perms:      perms,
		publisher:  publisher,
		stamp:      stamper{clock: clock, ids: ids},
		logger:     log,
	}
}

// FindBySalesPerson returns the entries of a sales person dated in [from, to]
func (s *ExtraHoursService) FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time) ([]domain.ExtraHours, error) {
	if err := s.perms.CheckSelfOr(ctx, salesPersonID.String(), permissions.HR); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, errors.DateOrderWrong(calendar.FormatDate(from), calendar.FormatDate(to))
	}
	return s.extraHours.FindBySalesPerson(ctx, salesPersonID, from, to)
}

// Create stores a new entry and fills in its id and lifecycle
func (s *ExtraHoursService) Create(ctx context.Context, eh *domain.ExtraHours) error {
	if err := s.perms.CheckSelfOr(ctx, eh.SalesPersonID.String(), permissions.HR); err != nil {
		return err
	}
	if err := s.validate(ctx, eh); err != nil {
		return err
	}

	id, lifecycle, err := s.stamp.create(ctx, eh.ID, eh.Lifecycle)
	if err != nil {
		return err
	}
	eh.ID, eh.Lifecycle = id, lifecycle

	if err := s.extraHours.Create(ctx, eh); err != nil {
		return err
	}

	s.logger.Info().
		Str("extra_hours_id", eh.ID.String()).
		Str("sales_person_id", eh.SalesPersonID.String()).
		Str("category", string(eh.Category)).
		Msg("extra hours created")

	s.publisher.PublishExtraHours(ctx, messaging.EventExtraHoursCreated, eh, eh.CreatedBy)
	return nil
}

// Update rewrites an entry. eh.Version must equal the stored version.
func (s *ExtraHoursService) Update(ctx context.Context, eh *domain.ExtraHours) error {
	stored, err := s.extraHours.GetByID(ctx, eh.ID)
	if err != nil {
		return err
	}
	if err := s.perms.CheckSelfOr(ctx, stored.SalesPersonID.String(), permissions.HR); err != nil {
		return err
	}
	eh.SalesPersonID = stored.SalesPersonID
	if err := s.validate(ctx, eh); err != nil {
		return err
	}

	lifecycle, err := s.stamp.update(eh.ID, eh.Lifecycle, stored.Lifecycle)
	if err != nil {
		return err
	}
	eh.Lifecycle = lifecycle

	if err := s.extraHours.Update(ctx, eh, stored.Version); err != nil {
		return err
	}
	s.publisher.PublishExtraHours(ctx, messaging.EventExtraHoursUpdated, eh, actor.FromContext(ctx).AuditName())
	return nil
}

// Delete soft deletes an entry
func (s *ExtraHoursService) Delete(ctx context.Context, id uuid.UUID) error {
	stored, err := s.extraHours.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.perms.CheckSelfOr(ctx, stored.SalesPersonID.String(), permissions.HR); err != nil {
		return err
	}
	if stored.IsDeleted() {
		return errors.EntityNotFound("extra hours", id)
	}

	deleted := *stored
	deleted.Lifecycle = s.stamp.delete(ctx, stored.Lifecycle)
	if err := s.extraHours.Update(ctx, &deleted, stored.Version); err != nil {
		return err
	}

	s.logger.Info().Str("extra_hours_id", id.String()).Msg("extra hours deleted")
	s.publisher.PublishExtraHours(ctx, messaging.EventExtraHoursDeleted, &deleted, *deleted.DeletedBy)
	return nil
}

// ListCustom returns the custom categories
func (s *ExtraHoursService) ListCustom(ctx context.Context) ([]domain.CustomExtraHours, error) {
	if err := s.perms.Check(ctx, permissions.HR, permissions.Sales, permissions.ShiftPlanner); err != nil {
		return nil, err
	}
	return s.extraHours.ListCustom(ctx)
}

// CreateCustom defines a new custom category
func (s *ExtraHoursService) CreateCustom(ctx context.Context, c *domain.CustomExtraHours) error {
	if err := s.perms.Check(ctx, permissions.HR); err != nil {
		return err
	}
	if c.Name == "" {
		return errors.Validation(map[string]string{"name": "this field is required"})
	}

	id, lifecycle, err := s.stamp.create(ctx, c.ID, c.Lifecycle)
	if err != nil {
		return err
	}
	c.ID, c.Lifecycle = id, lifecycle
	return s.extraHours.CreateCustom(ctx, c)
}

// validate checks the category and resolves the custom definition it names
func (s *ExtraHoursService) validate(ctx context.Context, eh *domain.ExtraHours) error {
	if !eh.Category.Valid() {
		return errors.Validation(map[string]string{"category": "unknown category"})
	}
	if eh.DateTime.IsZero() {
		return errors.Validation(map[string]string{"date_time": "this field is required"})
	}

	if eh.Category != domain.CategoryCustom {
		if eh.CustomExtraHoursID != nil {
			return errors.Validation(map[string]string{"custom_extra_hours_id": "only allowed for category custom"})
		}
		eh.CustomName = ""
		return nil
	}

	if eh.CustomExtraHoursID == nil {
		return errors.Validation(map[string]string{"custom_extra_hours_id": "required for category custom"})
	}
	custom, err := s.extraHours.GetCustom(ctx, *eh.CustomExtraHoursID)
	if err != nil {
		return err
	}
	eh.CustomName = custom.Name
	return nil
}
