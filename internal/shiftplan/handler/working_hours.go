package handler

import (
	"net/http"

	"github.com/shifty/shifty-backend/pkg/httputil"
	"github.com/shifty/shifty-backend/pkg/logger"
)

// WorkingHoursHandler handles contract endpoints
type WorkingHoursHandler struct {
	service WorkingHoursService
	logger  *logger.Logger
}

// NewWorkingHoursHandler creates a new working hours handler
func NewWorkingHoursHandler(svc WorkingHoursService, log *logger.Logger) *WorkingHoursHandler {
	return &WorkingHoursHandler{
		service: svc,
		logger:  log,
	}
}

// ListForSalesPerson lists the contracts of a sales person
func (h *WorkingHoursHandler) ListForSalesPerson(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "salesPersonId")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	contracts, err := h.service.FindBySalesPerson(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, contracts)
}

// Create creates a contract
func (h *WorkingHoursHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req WorkingHoursRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	contract := req.toDomain()
	if err := h.service.Create(r.Context(), contract); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, contract)
}

// Update rewrites a contract
func (h *WorkingHoursHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req WorkingHoursRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	contract := req.toDomain()
	contract.ID = id
	if err := h.service.Update(r.Context(), contract); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, contract)
}

// Delete soft deletes a contract
func (h *WorkingHoursHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
