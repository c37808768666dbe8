package handler

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/httputil"
)

func init() {
	err := httputil.RegisterCustomValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := calendar.ParseDate(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}
}

// BillingPeriodRequest names the end date of the next billing period
type BillingPeriodRequest struct {
	EndDate string `json:"end_date" validate:"required,isodate"`
}

func (r BillingPeriodRequest) endDate() (time.Time, error) {
	return calendar.ParseDate(r.EndDate)
}

// CarryoverRequest overrides the carryover of one sales person and year
type CarryoverRequest struct {
	CarryoverHours float32 `json:"carryover_hours"`
	Vacation       int     `json:"vacation"`
}

// ExtraHoursRequest creates or updates an extra hours entry. Version is
// required on update.
type ExtraHoursRequest struct {
	SalesPersonID      uuid.UUID  `json:"sales_person_id" validate:"required"`
	Amount             float32    `json:"amount"`
	Category           string     `json:"category" validate:"required,oneof=extra_work vacation sick_leave holiday unavailable custom"`
	CustomExtraHoursID *uuid.UUID `json:"custom_extra_hours_id"`
	Description        string     `json:"description" validate:"max=1000"`
	DateTime           time.Time  `json:"date_time"`
	Version            uuid.UUID  `json:"version"`
}

func (r ExtraHoursRequest) toDomain() *domain.ExtraHours {
	return &domain.ExtraHours{
		SalesPersonID:      r.SalesPersonID,
		Amount:             r.Amount,
		Category:           domain.ExtraHoursCategory(r.Category),
		CustomExtraHoursID: r.CustomExtraHoursID,
		Description:        r.Description,
		DateTime:           r.DateTime,
		Lifecycle:          domain.Lifecycle{Version: r.Version},
	}
}

// CustomExtraHoursRequest defines a custom extra hours category
type CustomExtraHoursRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// WorkingHoursRequest creates or updates a contract
type WorkingHoursRequest struct {
	SalesPersonID   uuid.UUID `json:"sales_person_id" validate:"required"`
	ExpectedHours   float32   `json:"expected_hours" validate:"gte=0"`
	FromYear        int       `json:"from_year" validate:"required,gte=1900"`
	FromWeek        int       `json:"from_calendar_week" validate:"gte=1,lte=53"`
	FromDayOfWeek   int       `json:"from_day_of_week" validate:"omitempty,gte=1,lte=7"`
	ToYear          int       `json:"to_year" validate:"required,gte=1900"`
	ToWeek          int       `json:"to_calendar_week" validate:"gte=1,lte=53"`
	ToDayOfWeek     int       `json:"to_day_of_week" validate:"omitempty,gte=1,lte=7"`
	Monday          bool      `json:"monday"`
	Tuesday         bool      `json:"tuesday"`
	Wednesday       bool      `json:"wednesday"`
	Thursday        bool      `json:"thursday"`
	Friday          bool      `json:"friday"`
	Saturday        bool      `json:"saturday"`
	Sunday          bool      `json:"sunday"`
	WorkdaysPerWeek int       `json:"workdays_per_week" validate:"gte=1,lte=7"`
	VacationDays    int       `json:"vacation_days" validate:"gte=0"`
	Version         uuid.UUID `json:"version"`
}

func (r WorkingHoursRequest) toDomain() *domain.WorkingHours {
	return &domain.WorkingHours{
		SalesPersonID:   r.SalesPersonID,
		ExpectedHours:   r.ExpectedHours,
		FromYear:        r.FromYear,
		FromWeek:        r.FromWeek,
		FromDayOfWeek:   calendar.DayOfWeek(r.FromDayOfWeek),
		ToYear:          r.ToYear,
		ToWeek:          r.ToWeek,
		ToDayOfWeek:     calendar.DayOfWeek(r.ToDayOfWeek),
		Monday:          r.Monday,
		Tuesday:         r.Tuesday,
		Wednesday:       r.Wednesday,
		Thursday:        r.Thursday,
		Friday:          r.Friday,
		Saturday:        r.Saturday,
		Sunday:          r.Sunday,
		WorkdaysPerWeek: r.WorkdaysPerWeek,
		VacationDays:    r.VacationDays,
		Lifecycle:       domain.Lifecycle{Version: r.Version},
	}
}

// SpecialDayRequest marks a holiday or short day
type SpecialDayRequest struct {
	Year         int                 `json:"year" validate:"required,gte=1900"`
	CalendarWeek int                 `json:"calendar_week" validate:"gte=1,lte=53"`
	DayOfWeek    int                 `json:"day_of_week" validate:"gte=1,lte=7"`
	DayType      string              `json:"day_type" validate:"required,oneof=holiday short_day"`
	TimeOfDay    *calendar.TimeOfDay `json:"time_of_day"`
}

func (r SpecialDayRequest) toDomain() *domain.SpecialDay {
	return &domain.SpecialDay{
		Year:         r.Year,
		CalendarWeek: r.CalendarWeek,
		DayOfWeek:    calendar.DayOfWeek(r.DayOfWeek),
		DayType:      domain.SpecialDayType(r.DayType),
		TimeOfDay:    r.TimeOfDay,
	}
}
