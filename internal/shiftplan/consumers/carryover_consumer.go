package consumers

import (
	"context"

	"github.com/shifty/shifty-backend/pkg/actor"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/logger"
	"github.com/shifty/shifty-backend/pkg/messaging"
)

// CarryoverUpdater rebuilds the carryovers of one year
type CarryoverUpdater interface {
	UpdateAllEmployees(ctx context.Context, year int) (int, error)
}

// CarryoverConsumer consumes carryover recalculation commands
type CarryoverConsumer struct {
	consumer *messaging.Consumer
	updater  CarryoverUpdater
	logger   *logger.Logger
}

// NewCarryoverConsumer creates a new carryover consumer
func NewCarryoverConsumer(rmq *messaging.RabbitMQ, updater CarryoverUpdater, log *logger.Logger) (*CarryoverConsumer, error) {
	if err := rmq.DeclareDeadLetterQueue("shifty-service"); err != nil {
		return nil, err
	}

	consumer, err := messaging.NewConsumer(rmq, "shifty-service.carryover-commands", log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeShiftyEvents, messaging.CommandCarryoverRecalculate); err != nil {
		return nil, err
	}

	c := NewCarryoverHandler(updater, log)
	c.consumer = consumer
	consumer.RegisterHandler(messaging.CommandCarryoverRecalculate, c.HandleRecalculate)

	return c, nil
}

// NewCarryoverHandler creates the command handler without a broker
func NewCarryoverHandler(updater CarryoverUpdater, log *logger.Logger) *CarryoverConsumer {
	return &CarryoverConsumer{
		updater: updater,
		logger:  log.WithComponent("carryover-consumer"),
	}
}

// Start starts consuming messages
func (c *CarryoverConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

// HandleRecalculate rebuilds the requested year as the system actor. Partial
// failures are logged by the updater and not retried.
func (c *CarryoverConsumer) HandleRecalculate(ctx context.Context, event *messaging.Event) error {
	var data messaging.CarryoverRecalculateCommand
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}
	if data.Year <= 0 {
		return errors.InvalidDate("carryover recalculation without year")
	}

	c.logger.Info().
		Int("year", data.Year).
		Str("requested_by", data.RequestedBy).
		Str("event_id", event.ID).
		Msg("received carryover recalculation request")

	written, err := c.updater.UpdateAllEmployees(actor.WithSystem(ctx), data.Year)
	if err != nil && written == 0 {
		return err
	}
	if err != nil {
		c.logger.Warn().Err(err).Int("year", data.Year).Int("written", written).Msg("carryover recalculation finished with failures")
	}
	return nil
}
