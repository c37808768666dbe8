package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/pkg/calendar"
)

// Lifecycle carries the audit and concurrency fields shared by every entity.
type Lifecycle struct {
	Created   time.Time  `json:"created"`
	CreatedBy string     `json:"created_by,omitempty"`
	Deleted   *time.Time `json:"deleted,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty"`
	Version   uuid.UUID  `json:"version"`
}

// IsDeleted reports whether the entity was soft deleted.
func (l Lifecycle) IsDeleted() bool {
	return l.Deleted != nil
}

// SalesPerson is an employee that can be booked onto slots.
type SalesPerson struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Inactive bool      `json:"inactive"`
	IsPaid   bool      `json:"is_paid"`
	Lifecycle
}

// Slot is a recurring weekly shift window.
type Slot struct {
	ID           uuid.UUID          `json:"id"`
	DayOfWeek    calendar.DayOfWeek `json:"day_of_week"`
	From         calendar.TimeOfDay `json:"from"`
	To           calendar.TimeOfDay `json:"to"`
	MinResources int                `json:"min_resources"`
	ValidFrom    time.Time          `json:"valid_from"`
	ValidTo      *time.Time         `json:"valid_to,omitempty"`
	Lifecycle
}

// Booking assigns a sales person to a slot in one calendar week.
type Booking struct {
	ID            uuid.UUID `json:"id"`
	SalesPersonID uuid.UUID `json:"sales_person_id"`
	SlotID        uuid.UUID `json:"slot_id"`
	Year          int       `json:"year"`
	CalendarWeek  int       `json:"calendar_week"`
	Lifecycle
}
