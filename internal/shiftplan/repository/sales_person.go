package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/database"
)

type salesPersonRow struct {
	ID       uuid.UUID `db:"id"`
	Name     string    `db:"name"`
	Inactive bool      `db:"inactive"`
	IsPaid   bool      `db:"is_paid"`
	lifecycleRow
}

func (r salesPersonRow) toDomain() domain.SalesPerson {
	return domain.SalesPerson{
		ID:        r.ID,
		Name:      r.Name,
		Inactive:  r.Inactive,
		IsPaid:    r.IsPaid,
		Lifecycle: r.lifecycleRow.toDomain(),
	}
}

// SalesPersonRepository handles sales person persistence
type SalesPersonRepository struct {
	db *database.DB
}

// NewSalesPersonRepository creates a new sales person repository
func NewSalesPersonRepository(db *database.DB) *SalesPersonRepository {
	return &SalesPersonRepository{db: db}
}

const salesPersonColumns = `id, name, inactive, is_paid, created, created_by, deleted, deleted_by, update_version`

// GetAll returns all non-deleted sales persons ordered by name
func (r *SalesPersonRepository) GetAll(ctx context.Context) ([]domain.SalesPerson, error) {
	query := `SELECT ` + salesPersonColumns + ` FROM sales_person WHERE deleted IS NULL ORDER BY name, id`

	var rows []salesPersonRow
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, database.QueryError(err)
	}

	out := make([]domain.SalesPerson, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// GetByID returns a non-deleted sales person
func (r *SalesPersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesPerson, error) {
	query := `SELECT ` + salesPersonColumns + ` FROM sales_person WHERE id = $1 AND deleted IS NULL`

	var row salesPersonRow
	if err := r.db.Querier(ctx).GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "sales person", id)
	}
	sp := row.toDomain()
	return &sp, nil
}

// Create inserts a sales person
func (r *SalesPersonRepository) Create(ctx context.Context, sp *domain.SalesPerson) error {
	query := `
		INSERT INTO sales_person (` + salesPersonColumns + `)
		VALUES (:id, :name, :inactive, :is_paid, :created, :created_by, :deleted, :deleted_by, :update_version)
	`
	row := salesPersonRow{
		ID: sp.ID, Name: sp.Name, Inactive: sp.Inactive, IsPaid: sp.IsPaid,
		lifecycleRow: lifecycleFrom(sp.Lifecycle),
	}
	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, row); err != nil {
		return database.QueryError(err)
	}
	return nil
}
