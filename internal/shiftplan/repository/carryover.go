package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/database"
)

type carryoverRow struct {
	SalesPersonID  uuid.UUID `db:"sales_person_id"`
	Year           int       `db:"year"`
	CarryoverHours float64   `db:"carryover_hours"`
	Vacation       int       `db:"vacation"`
	lifecycleRow
}

// CarryoverRepository stores one balance per sales person and year
type CarryoverRepository struct {
	db *database.DB
}

// NewCarryoverRepository creates a new carryover repository
func NewCarryoverRepository(db *database.DB) *CarryoverRepository {
	return &CarryoverRepository{db: db}
}

// Get returns the carryover of a sales person for a year, or nil when none exists.
func (r *CarryoverRepository) Get(ctx context.Context, salesPersonID uuid.UUID, year int) (*domain.Carryover, error) {
	query := `
		SELECT sales_person_id, year, carryover_hours, vacation,
		       created, created_by, deleted, deleted_by, update_version
		FROM employee_yearly_carryover
		WHERE sales_person_id = $1 AND year = $2 AND deleted IS NULL
	`
	var row carryoverRow
	err := r.db.Querier(ctx).GetContext(ctx, &row, query, salesPersonID, year)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, database.QueryError(err)
	}

	return &domain.Carryover{
		SalesPersonID:  row.SalesPersonID,
		Year:           row.Year,
		CarryoverHours: ToHours(row.CarryoverHours),
		Vacation:       row.Vacation,
		Lifecycle:      row.lifecycleRow.toDomain(),
	}, nil
}

// Upsert inserts the carryover or replaces the values of an existing one.
// The original creation stamp is preserved on update.
func (r *CarryoverRepository) Upsert(ctx context.Context, c *domain.Carryover) error {
	query := `
		INSERT INTO employee_yearly_carryover (
			sales_person_id, year, carryover_hours, vacation,
			created, created_by, deleted, deleted_by, update_version
		) VALUES (
			:sales_person_id, :year, :carryover_hours, :vacation,
			:created, :created_by, :deleted, :deleted_by, :update_version
		)
		ON CONFLICT (sales_person_id, year) DO UPDATE SET
			carryover_hours = EXCLUDED.carryover_hours,
			vacation = EXCLUDED.vacation,
			deleted = NULL,
			deleted_by = NULL,
			update_version = EXCLUDED.update_version
	`
	row := carryoverRow{
		SalesPersonID:  c.SalesPersonID,
		Year:           c.Year,
		CarryoverHours: FromHours(c.CarryoverHours),
		Vacation:       c.Vacation,
		lifecycleRow:   lifecycleFrom(c.Lifecycle),
	}
	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, row); err != nil {
		return database.QueryError(err)
	}
	return nil
}
