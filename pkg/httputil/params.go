package httputil

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/pkg/errors"
)

// UUIDParam parses a chi URL parameter as UUID
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.BadRequest("invalid " + name)
	}
	return id, nil
}

// IntParam parses a chi URL parameter as int
func IntParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, errors.BadRequest("invalid " + name)
	}
	return n, nil
}

// QueryInt parses an optional query parameter, returning def when absent
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest("invalid " + name)
	}
	return n, nil
}

// QueryDate parses a required YYYY-MM-DD query parameter as a UTC date
func QueryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, errors.Validation(map[string]string{name: "this field is required"})
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.Validation(map[string]string{name: "must be a date in YYYY-MM-DD format"})
	}
	return d, nil
}

// QueryBool parses an optional boolean query parameter, returning def when absent
func QueryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.BadRequest("invalid " + name)
	}
	return b, nil
}
