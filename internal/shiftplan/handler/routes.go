package handler

import "github.com/go-chi/chi/v5"

// Handlers groups the HTTP handlers of the service
type Handlers struct {
	Reports        *ReportHandler
	BillingPeriods *BillingPeriodHandler
	Carryovers     *CarryoverHandler
	ExtraHours     *ExtraHoursHandler
	WorkingHours   *WorkingHoursHandler
	SpecialDays    *SpecialDayHandler
}

// Register mounts every route on r. Authentication is expected to run before.
func (h Handlers) Register(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.Reports.ListShort)
		r.Get("/week/{year}/{week}", h.Reports.GetWeek)
		r.Get("/{salesPersonId}", h.Reports.GetEmployee)
		r.Get("/{salesPersonId}/range", h.Reports.GetEmployeeRange)
	})

	r.Route("/billing-periods", func(r chi.Router) {
		r.Get("/", h.BillingPeriods.List)
		r.Post("/", h.BillingPeriods.Create)
		r.Delete("/", h.BillingPeriods.ClearAll)
		r.Get("/latest-end-date", h.BillingPeriods.LatestEndDate)
		r.Post("/preview", h.BillingPeriods.Preview)
		r.Get("/{id}", h.BillingPeriods.Get)
	})

	r.Route("/carryover", func(r chi.Router) {
		r.Post("/{year}/recalculate", h.Carryovers.Recalculate)
		r.Get("/{year}/{salesPersonId}", h.Carryovers.Get)
		r.Put("/{year}/{salesPersonId}", h.Carryovers.Set)
	})

	r.Route("/sales-persons/{salesPersonId}", func(r chi.Router) {
		r.Get("/extra-hours", h.ExtraHours.ListForSalesPerson)
		r.Get("/working-hours", h.WorkingHours.ListForSalesPerson)
	})

	r.Route("/extra-hours", func(r chi.Router) {
		r.Post("/", h.ExtraHours.Create)
		r.Put("/{id}", h.ExtraHours.Update)
		r.Delete("/{id}", h.ExtraHours.Delete)
	})

	r.Route("/custom-extra-hours", func(r chi.Router) {
		r.Get("/", h.ExtraHours.ListCustom)
		r.Post("/", h.ExtraHours.CreateCustom)
	})

	r.Route("/working-hours", func(r chi.Router) {
		r.Post("/", h.WorkingHours.Create)
		r.Put("/{id}", h.WorkingHours.Update)
		r.Delete("/{id}", h.WorkingHours.Delete)
	})

	r.Route("/special-days", func(r chi.Router) {
		r.Get("/{year}/{week}", h.SpecialDays.ListForWeek)
		r.Post("/", h.SpecialDays.Create)
		r.Delete("/{id}", h.SpecialDays.Delete)
	})
}
