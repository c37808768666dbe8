package handler

import (
	"net/http"

	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/httputil"
	"github.com/shifty/shifty-backend/pkg/logger"
)

// BillingPeriodHandler handles billing period endpoints
type BillingPeriodHandler struct {
	service BillingPeriodService
	logger  *logger.Logger
}

// NewBillingPeriodHandler creates a new billing period handler
func NewBillingPeriodHandler(svc BillingPeriodService, log *logger.Logger) *BillingPeriodHandler {
	return &BillingPeriodHandler{
		service: svc,
		logger:  log,
	}
}

// List lists all billing periods without values
func (h *BillingPeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	periods, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, periods, &httputil.Meta{Total: len(periods)})
}

// Get returns one billing period with its values
func (h *BillingPeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	period, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, period)
}

// LatestEndDate returns the end date of the newest period, null when none exists
func (h *BillingPeriodHandler) LatestEndDate(w http.ResponseWriter, r *http.Request) {
	end, err := h.service.LatestEndDate(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var formatted *string
	if end != nil {
		s := calendar.FormatDate(*end)
		formatted = &s
	}
	httputil.JSON(w, http.StatusOK, map[string]*string{"end_date": formatted})
}

// Preview computes the next billing period without storing it
func (h *BillingPeriodHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req BillingPeriodRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}
	end, err := req.endDate()
	if err != nil {
		httputil.Error(w, err)
		return
	}

	period, err := h.service.BuildNewBillingPeriod(r.Context(), end)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, period)
}

// Create closes the next billing period
func (h *BillingPeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BillingPeriodRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}
	end, err := req.endDate()
	if err != nil {
		httputil.Error(w, err)
		return
	}

	id, err := h.service.BuildAndPersistBillingPeriodReport(r.Context(), end)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, map[string]string{"id": id.String()})
}

// ClearAll soft deletes every billing period
func (h *BillingPeriodHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.service.ClearAll(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"cleared": cleared})
}
