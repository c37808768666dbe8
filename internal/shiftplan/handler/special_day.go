package handler

import (
	"net/http"

	"github.com/shifty/shifty-backend/pkg/httputil"
	"github.com/shifty/shifty-backend/pkg/logger"
)

// SpecialDayHandler handles holiday and short day endpoints
type SpecialDayHandler struct {
	service SpecialDayService
	logger  *logger.Logger
}

// NewSpecialDayHandler creates a new special day handler
func NewSpecialDayHandler(svc SpecialDayService, log *logger.Logger) *SpecialDayHandler {
	return &SpecialDayHandler{
		service: svc,
		logger:  log,
	}
}

// ListForWeek lists the special days of one ISO week
func (h *SpecialDayHandler) ListForWeek(w http.ResponseWriter, r *http.Request) {
	year, err := httputil.IntParam(r, "year")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	week, err := httputil.IntParam(r, "week")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	days, err := h.service.FindForWeek(r.Context(), year, week)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, days)
}

// Create marks a special day
func (h *SpecialDayHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SpecialDayRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	sd := req.toDomain()
	if err := h.service.Create(r.Context(), sd); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, sd)
}

// Delete removes a special day
func (h *SpecialDayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
