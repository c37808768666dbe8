package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shifty/shifty-backend/pkg/logger"
)

// maxDeaths bounds dead letter round trips counted in x-death.
const maxDeaths = 3

// MessageHandler handles one decoded event
type MessageHandler func(ctx context.Context, event *Event) error

// Consumer dispatches the events of one queue to handlers keyed by event type
type Consumer struct {
	rmq       *RabbitMQ
	queueName string
	timeout   time.Duration
	handlers  map[string]MessageHandler
	logger    *logger.Logger
}

// NewConsumer declares the queue and returns a consumer for it
func NewConsumer(rmq *RabbitMQ, queueName string, log *logger.Logger) (*Consumer, error) {
	if _, err := rmq.DeclareQueue(queueName); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &Consumer{
		rmq:       rmq,
		queueName: queueName,
		timeout:   rmq.config.HandlerTimeout,
		handlers:  make(map[string]MessageHandler),
		logger:    &logger.Logger{Logger: log.With().Str("component", "consumer").Str("queue", queueName).Logger()},
	}, nil
}

// Subscribe binds the queue to a topic exchange
func (c *Consumer) Subscribe(exchange, routingKeyPattern string) error {
	if err := c.rmq.DeclareExchange(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if err := c.rmq.BindQueue(c.queueName, exchange, routingKeyPattern); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	c.logger.Info().
		Str("exchange", exchange).
		Str("routing_key", routingKeyPattern).
		Msg("subscribed to exchange")
	return nil
}

// RegisterHandler registers the handler for an event type
func (c *Consumer) RegisterHandler(eventType string, handler MessageHandler) {
	c.handlers[eventType] = handler
}

// Start consumes until ctx is done. Deliveries are processed one at a time.
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.rmq.Channel().Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info().Msg("consumer started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info().Msg("consumer stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn().Msg("delivery channel closed")
					return
				}
				c.settle(msg, c.dispatch(ctx, msg))
			}
		}
	}()

	return nil
}

type outcome int

const (
	ack outcome = iota
	requeue
	deadLetter
)

func (c *Consumer) dispatch(ctx context.Context, msg amqp.Delivery) outcome {
	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error().Err(err).Msg("malformed event")
		return deadLetter
	}

	handler, ok := c.handlers[event.Type]
	if !ok {
		c.logger.Debug().Str("event_type", event.Type).Msg("no handler for event type")
		return ack
	}

	ctx = WithCorrelationID(ctx, event.CorrelationID)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err := handler(ctx, &event)
	log := c.logger.With().
		Str("event_type", event.Type).
		Str("event_id", event.ID).
		Str("correlation_id", event.CorrelationID).
		Dur("duration", time.Since(start)).
		Logger()

	if err == nil {
		log.Debug().Msg("event processed")
		return ack
	}

	// A plain requeue does not add x-death, so a redelivered message that
	// fails again goes to the dead letter queue.
	deaths := deathCount(msg)
	if msg.Redelivered || deaths >= maxDeaths {
		log.Warn().Err(err).Int("deaths", deaths).Msg("event failed again, dead lettering")
		return deadLetter
	}
	log.Error().Err(err).Msg("event failed, requeueing")
	return requeue
}

func (c *Consumer) settle(msg amqp.Delivery, o outcome) {
	var err error
	switch o {
	case ack:
		err = msg.Ack(false)
	case requeue:
		err = msg.Nack(false, true)
	case deadLetter:
		err = msg.Reject(false)
	}
	if err != nil {
		c.logger.Error().Err(err).Uint64("delivery_tag", msg.DeliveryTag).Msg("failed to settle delivery")
	}
}

func deathCount(msg amqp.Delivery) int {
	deaths, ok := msg.Headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	total := 0
	for _, death := range deaths {
		if d, ok := death.(amqp.Table); ok {
			if count, ok := d["count"].(int64); ok {
				total += int(count)
			}
		}
	}
	return total
}
