package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Billing period events
	EventBillingPeriodCreated = "shifty.billing_period.created"
	EventBillingPeriodCleared = "shifty.billing_period.cleared"

	// Carryover events
	EventCarryoverUpdated = "shifty.carryover.updated"

	// Carryover commands
	CommandCarryoverRecalculate = "shifty.carryover.recalculate_requested"

	// Extra hours events
	EventExtraHoursCreated = "shifty.extra_hours.created"
	EventExtraHoursUpdated = "shifty.extra_hours.updated"
	EventExtraHoursDeleted = "shifty.extra_hours.deleted"
)

// Exchange names
const (
	ExchangeShiftyEvents = "shifty.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Billing Period Events

// BillingPeriodCreatedEvent is published after a billing period was persisted
type BillingPeriodCreatedEvent struct {
	BillingPeriodID string `json:"billing_period_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	SalesPersons    int    `json:"sales_persons"`
	CreatedBy       string `json:"created_by"`
}

// BillingPeriodClearedEvent is published after all billing periods were soft deleted
type BillingPeriodClearedEvent struct {
	Cleared   int64  `json:"cleared"`
	ClearedBy string `json:"cleared_by"`
}

// Carryover Events

// CarryoverUpdatedEvent is published for every carryover the yearly job writes
type CarryoverUpdatedEvent struct {
	SalesPersonID  string  `json:"sales_person_id"`
	Year           int     `json:"year"`
	CarryoverHours float32 `json:"carryover_hours"`
	Vacation       int     `json:"vacation"`
}

// CarryoverRecalculateCommand asks the carryover consumer to rebuild one year
type CarryoverRecalculateCommand struct {
	Year        int    `json:"year"`
	RequestedBy string `json:"requested_by"`
}

// Extra Hours Events

// ExtraHoursEvent is published when an extra hours entry is created, updated or deleted
type ExtraHoursEvent struct {
	ExtraHoursID  string  `json:"extra_hours_id"`
	SalesPersonID string  `json:"sales_person_id"`
	Category      string  `json:"category"`
	Amount        float32 `json:"amount"`
	Date          string  `json:"date"`
	ChangedBy     string  `json:"changed_by"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.NewString()
}
