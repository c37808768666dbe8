package handler

import (
	"net/http"

	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/httputil"
	"github.com/shifty/shifty-backend/pkg/logger"
)

// CarryoverHandler handles carryover ledger endpoints
type CarryoverHandler struct {
	service CarryoverService
	logger  *logger.Logger
}

// NewCarryoverHandler creates a new carryover handler
func NewCarryoverHandler(svc CarryoverService, log *logger.Logger) *CarryoverHandler {
	return &CarryoverHandler{
		service: svc,
		logger:  log,
	}
}

// Get returns the balance a sales person carries out of {year}
func (h *CarryoverHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "salesPersonId")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	year, err := httputil.IntParam(r, "year")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	c, err := h.service.Get(r.Context(), id, year)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	if c == nil {
		httputil.Error(w, errors.EntityNotFound("carryover", id))
		return
	}

	httputil.JSON(w, http.StatusOK, c)
}

// Set overrides a carryover by hand
func (h *CarryoverHandler) Set(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "salesPersonId")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	year, err := httputil.IntParam(r, "year")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req CarryoverRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	c := &domain.Carryover{
		SalesPersonID:  id,
		Year:           year,
		CarryoverHours: req.CarryoverHours,
		Vacation:       req.Vacation,
	}
	if err := h.service.Set(r.Context(), c); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, c)
}

// Recalculate queues the rebuild of every carryover of {year}
func (h *CarryoverHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	year, err := httputil.IntParam(r, "year")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.RequestRecalculation(r.Context(), year); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusAccepted, map[string]int{"year": year})
}
