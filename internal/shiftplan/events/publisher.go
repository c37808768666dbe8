package events

import (
	"context"

	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/messaging"
)

// Publisher is the transport the event publisher writes to.
// *messaging.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// ShiftplanEventPublisher publishes shiftplan events. A nil publisher drops
// every event, which is how the service runs without RabbitMQ.
type ShiftplanEventPublisher struct {
	publisher Publisher
	logger    *logger.Logger
}

// NewShiftplanEventPublisher creates a publisher on the shifty exchange
func NewShiftplanEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ShiftplanEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeShiftyEvents, "shifty-service", log)
	if err != nil {
		return nil, err
	}
	return New(publisher, log), nil
}

// New wraps an existing transport
func New(publisher Publisher, log *logger.Logger) *ShiftplanEventPublisher {
	return &ShiftplanEventPublisher{
		publisher: publisher,
		logger:    log,
	}
}

// Enabled reports whether events reach a broker
func (p *ShiftplanEventPublisher) Enabled() bool {
	return p != nil && p.publisher != nil
}

// PublishBillingPeriodCreated publishes a billing period created event
func (p *ShiftplanEventPublisher) PublishBillingPeriodCreated(ctx context.Context, period *domain.BillingPeriod) {
	if !p.Enabled() {
		return
	}
	data := messaging.BillingPeriodCreatedEvent{
		BillingPeriodID: period.ID.String(),
		StartDate:       calendar.FormatDate(period.StartDate),
		EndDate:         calendar.FormatDate(period.EndDate),
		SalesPersons:    len(period.SalesPersons),
		CreatedBy:       period.CreatedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventBillingPeriodCreated, data); err != nil {
		p.logger.Error().Err(err).Str("billing_period_id", data.BillingPeriodID).Msg("failed to publish billing period created event")
	}
}

// PublishBillingPeriodsCleared publishes a billing periods cleared event
func (p *ShiftplanEventPublisher) PublishBillingPeriodsCleared(ctx context.Context, cleared int64, clearedBy string) {
	if !p.Enabled() {
		return
	}
	data := messaging.BillingPeriodClearedEvent{Cleared: cleared, ClearedBy: clearedBy}

	if err := p.publisher.Publish(ctx, messaging.EventBillingPeriodCleared, data); err != nil {
		p.logger.Error().Err(err).Msg("failed to publish billing periods cleared event")
	}
}

// PublishCarryoverUpdated publishes a carryover updated event
func (p *ShiftplanEventPublisher) PublishCarryoverUpdated(ctx context.Context, c *domain.Carryover) {
	if !p.Enabled() {
		return
	}
	data := messaging.CarryoverUpdatedEvent{
		SalesPersonID:  c.SalesPersonID.String(),
		Year:           c.Year,
		CarryoverHours: c.CarryoverHours,
		Vacation:       c.Vacation,
	}

	if err := p.publisher.Publish(ctx, messaging.EventCarryoverUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("sales_person_id", data.SalesPersonID).Int("year", c.Year).Msg("failed to publish carryover updated event")
	}
}

// RequestCarryoverRecalculation sends the recalculation command. Unlike the
// events above the caller needs to know whether it was accepted.
func (p *ShiftplanEventPublisher) RequestCarryoverRecalculation(ctx context.Context, year int, requestedBy string) error {
	data := messaging.CarryoverRecalculateCommand{Year: year, RequestedBy: requestedBy}
	return p.publisher.Publish(ctx, messaging.CommandCarryoverRecalculate, data)
}

// PublishExtraHours publishes an extra hours created, updated or deleted event
func (p *ShiftplanEventPublisher) PublishExtraHours(ctx context.Context, eventType string, eh *domain.ExtraHours, changedBy string) {
	if !p.Enabled() {
		return
	}
	data := messaging.ExtraHoursEvent{
		ExtraHoursID:  eh.ID.String(),
		SalesPersonID: eh.SalesPersonID.String(),
		Category:      string(eh.Category),
		Amount:        eh.Amount,
		Date:          calendar.FormatDate(eh.Date()),
		ChangedBy:     changedBy,
	}

	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("extra_hours_id", data.ExtraHoursID).Str("event_type", eventType).Msg("failed to publish extra hours event")
	}
}
