package domain

import (
	"time"

	"github.com/google/uuid"
)

// Billing period value types
const (
	ValueBalance             = "balance"
	ValueOverall             = "overall"
	ValueExpectedHours       = "expected_hours"
	ValueExtraWork           = "extra_work"
	ValueVacationHours       = "vacation_hours"
	ValueSickLeave           = "sick_leave"
	ValueHoliday             = "holiday"
	ValueVacationDays        = "vacation_days"
	ValueVacationEntitlement = "vacation_entitlement"
	ValueCustomPrefix        = "custom_extra_hours:"
)

// BillingPeriod is a closed, immutable reporting window.
type BillingPeriod struct {
	ID           uuid.UUID                  `json:"id"`
	StartDate    time.Time                  `json:"start_date"`
	EndDate      time.Time                  `json:"end_date"`
	SalesPersons []BillingPeriodSalesPerson `json:"sales_persons,omitempty"`
	Lifecycle
}

// BillingPeriodSalesPerson holds the frozen values of one sales person.
type BillingPeriodSalesPerson struct {
	ID              uuid.UUID                     `json:"id"`
	BillingPeriodID uuid.UUID                     `json:"billing_period_id"`
	SalesPersonID   uuid.UUID                     `json:"sales_person_id"`
	Values          map[string]BillingPeriodValue `json:"values"`
	Lifecycle
}

// BillingPeriodValue is one figure seen through four windows.
type BillingPeriodValue struct {
	Delta    float32 `json:"delta"`
	YTDFrom  float32 `json:"ytd_from"`
	YTDTo    float32 `json:"ytd_to"`
	FullYear float32 `json:"full_year"`
}
