package handler

import (
	"net/http"

	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/httputil"
	"github.com/shifty/shifty-backend/pkg/logger"
)

// ExtraHoursHandler handles extra hours endpoints
type ExtraHoursHandler struct {
	service ExtraHoursService
	logger  *logger.Logger
}

// NewExtraHoursHandler creates a new extra hours handler
func NewExtraHoursHandler(svc ExtraHoursService, log *logger.Logger) *ExtraHoursHandler {
	return &ExtraHoursHandler{
		service: svc,
		logger:  log,
	}
}

// ListForSalesPerson lists the entries of a sales person between ?from and ?to
func (h *ExtraHoursHandler) ListForSalesPerson(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "salesPersonId")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	from, err := httputil.QueryDate(r, "from")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	to, err := httputil.QueryDate(r, "to")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	entries, err := h.service.FindBySalesPerson(r.Context(), id, from, to)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

// Create creates an extra hours entry
func (h *ExtraHoursHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ExtraHoursRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	eh := req.toDomain()
	if err := h.service.Create(r.Context(), eh); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, eh)
}

// Update rewrites an extra hours entry
func (h *ExtraHoursHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req ExtraHoursRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	eh := req.toDomain()
	eh.ID = id
	if err := h.service.Update(r.Context(), eh); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, eh)
}

// Delete soft deletes an extra hours entry
func (h *ExtraHoursHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// ListCustom lists the custom extra hours categories
func (h *ExtraHoursHandler) ListCustom(w http.ResponseWriter, r *http.Request) {
	custom, err := h.service.ListCustom(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, custom)
}

// CreateCustom defines a custom extra hours category
func (h *ExtraHoursHandler) CreateCustom(w http.ResponseWriter, r *http.Request) {
	var req CustomExtraHoursRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	c := &domain.CustomExtraHours{Name: req.Name, Description: req.Description}
	if err := h.service.CreateCustom(r.Context(), c); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, c)
}
