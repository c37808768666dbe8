package handler

import (
	"net/http"

	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shifty/shifty-backend/pkg/httputil"
	"github.com/shifty/shifty-backend/pkg/logger"
)

// lastWeek is clamped to the weeks of the requested year by the service.
const lastWeek = 53

// ReportHandler handles employee report endpoints
type ReportHandler struct {
	service ReportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  log,
	}
}

// ListShort returns the balance of every paid employee up to ?until_week
func (h *ReportHandler) ListShort(w http.ResponseWriter, r *http.Request) {
	year, untilWeek, err := yearAndWeek(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	reports, err := h.service.GetReportsForAllEmployees(r.Context(), year, untilWeek)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, reports, &httputil.Meta{Total: len(reports)})
}

// GetEmployee returns the full report of one employee
func (h *ReportHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.UUIDParam(r, "salesPersonId")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	year, untilWeek, err := yearAndWeek(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	report, err := h.service.GetReportForEmployee(r.Context(), id, year, untilWeek)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// GetEmployeeRange returns the report of one employee between ?from and ?to
func (h *ReportHandler) GetEmployeeRange(w http.ResponseWriter, r *http.Request) {
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
	includeCarryover, err := httputil.QueryBool(r, "include_carryover", false)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	report, err := h.service.GetReportForEmployeeRange(r.Context(), id, from, to, includeCarryover)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// GetWeek returns the week summary of every employee
func (h *ReportHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
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

	reports, err := h.service.GetWeek(r.Context(), year, week)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, reports)
}

func yearAndWeek(r *http.Request) (int, int, error) {
	year, err := httputil.QueryInt(r, "year", 0)
	if err != nil {
		return 0, 0, err
	}
	if year <= 0 {
		return 0, 0, errors.Validation(map[string]string{"year": "this field is required"})
	}
	untilWeek, err := httputil.QueryInt(r, "until_week", lastWeek)
	if err != nil {
		return 0, 0, err
	}
	return year, untilWeek, nil
}
