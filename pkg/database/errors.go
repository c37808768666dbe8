package database

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/shifty/shifty-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	default:
		return nil
	}
}

// QueryError maps err to an AppError: pq constraint errors keep their meaning,
// anything else becomes a DatabaseQuery error. sql.ErrNoRows is left to callers.
func QueryError(err error) error {
	if err == nil || err == sql.ErrNoRows {
		return err
	}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if mapped := MapPQError(err); mapped != nil {
		return mapped
	}
	return errors.DatabaseQuery(err)
}

func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "period_order"):
		return errors.Validation(map[string]string{
			"end_date": "must not be before start_date",
		})

	case strings.Contains(constraint, "day_of_week"):
		return errors.Validation(map[string]string{
			"day_of_week": "must be between 1 (monday) and 7 (sunday)",
		})

	case strings.Contains(constraint, "category_valid"):
		return errors.Validation(map[string]string{
			"category": "must be one of: extra_work, vacation, sick_leave, holiday, unavailable, custom",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "booking_unique"):
		return "the sales person is already booked on this slot for the week"
	case strings.Contains(constraint, "special_day_unique"):
		return "a special day already exists for this date"
	default:
		return "a record with these values already exists"
	}
}
