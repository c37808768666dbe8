package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/database"
	"github.com/shifty/shifty-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// hourPlaces is the precision hours keep across the float32/float64 boundary.
const hourPlaces = 4

// ToHours converts a stored float64 to service hours.
func ToHours(v float64) float32 {
	return float32(decimal.NewFromFloat(v).Round(hourPlaces).InexactFloat64())
}

// FromHours converts service hours to the stored float64.
func FromHours(v float32) float64 {
	return decimal.NewFromFloat32(v).Round(hourPlaces).InexactFloat64()
}

// lifecycleRow maps the audit columns every table carries.
type lifecycleRow struct {
	Created   time.Time  `db:"created"`
	CreatedBy string     `db:"created_by"`
	Deleted   *time.Time `db:"deleted"`
	DeletedBy *string    `db:"deleted_by"`
	Version   uuid.UUID  `db:"update_version"`
}

func (l lifecycleRow) toDomain() domain.Lifecycle {
	return domain.Lifecycle{
		Created:   l.Created,
		CreatedBy: l.CreatedBy,
		Deleted:   l.Deleted,
		DeletedBy: l.DeletedBy,
		Version:   l.Version,
	}
}

func lifecycleFrom(l domain.Lifecycle) lifecycleRow {
	return lifecycleRow{
		Created:   l.Created,
		CreatedBy: l.CreatedBy,
		Deleted:   l.Deleted,
		DeletedBy: l.DeletedBy,
		Version:   l.Version,
	}
}

// expectOneRow turns an optimistic update that matched nothing into a conflict.
func expectOneRow(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return database.QueryError(err)
	}
	if n == 0 {
		return errors.Conflict(resource + " was modified concurrently or does not exist")
	}
	return nil
}

// notFound maps sql.ErrNoRows to a NotFound error and everything else to a query error.
func notFound(err error, resource string, id uuid.UUID) error {
	if err == sql.ErrNoRows {
		return errors.EntityNotFound(resource, id)
	}
	return database.QueryError(err)
}
