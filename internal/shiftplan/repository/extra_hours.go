package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/database"
)

type extraHoursRow struct {
	ID                 uuid.UUID  `db:"id"`
	SalesPersonID      uuid.UUID  `db:"sales_person_id"`
	Amount             float64    `db:"amount"`
	Category           string     `db:"category"`
	CustomExtraHoursID *uuid.UUID `db:"custom_extra_hours_id"`
	Description        string     `db:"description"`
	DateTime           time.Time  `db:"date_time"`
	lifecycleRow

	// Joined fields
	CustomName *string `db:"custom_name"`
}

func (r extraHoursRow) toDomain() domain.ExtraHours {
	eh := domain.ExtraHours{
		ID:                 r.ID,
		SalesPersonID:      r.SalesPersonID,
		Amount:             ToHours(r.Amount),
		Category:           domain.ExtraHoursCategory(r.Category),
		CustomExtraHoursID: r.CustomExtraHoursID,
		Description:        r.Description,
		DateTime:           r.DateTime.UTC(),
		Lifecycle:          r.lifecycleRow.toDomain(),
	}
	if r.CustomName != nil {
		eh.CustomName = *r.CustomName
	}
	return eh
}

// ExtraHoursRepository handles extra hours persistence
type ExtraHoursRepository struct {
	db *database.DB
}

// NewExtraHoursRepository creates a new extra hours repository
func NewExtraHoursRepository(db *database.DB) *ExtraHoursRepository {
	return &ExtraHoursRepository{db: db}
}

const extraHoursSelect = `
	SELECT eh.id, eh.sales_person_id, eh.amount, eh.category, eh.custom_extra_hours_id,
	       eh.description, eh.date_time, eh.created, eh.created_by, eh.deleted, eh.deleted_by,
	       eh.update_version, c.name AS custom_name
	FROM extra_hours eh
	LEFT JOIN custom_extra_hours c ON c.id = eh.custom_extra_hours_id
`

func (r *ExtraHoursRepository) selectAll(ctx context.Context, query string, args ...interface{}) ([]domain.ExtraHours, error) {
	var rows []extraHoursRow
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, database.QueryError(err)
	}

	out := make([]domain.ExtraHours, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// FindBySalesPerson returns the non-deleted entries of a sales person dated
// within [from, to] (whole days).
func (r *ExtraHoursRepository) FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time) ([]domain.ExtraHours, error) {
	query := extraHoursSelect + `
		WHERE eh.sales_person_id = $1 AND eh.deleted IS NULL
		  AND eh.date_time >= $2 AND eh.date_time < $3
		ORDER BY eh.date_time, eh.id`
	return r.selectAll(ctx, query, salesPersonID, from, to.AddDate(0, 0, 1))
}

// FindInRange returns the non-deleted entries of everybody within [from, to]
func (r *ExtraHoursRepository) FindInRange(ctx context.Context, from, to time.Time) ([]domain.ExtraHours, error) {
	query := extraHoursSelect + `
		WHERE eh.deleted IS NULL AND eh.date_time >= $1 AND eh.date_time < $2
		ORDER BY eh.sales_person_id, eh.date_time, eh.id`
	return r.selectAll(ctx, query, from, to.AddDate(0, 0, 1))
}

// GetByID returns an entry including soft deleted ones
func (r *ExtraHoursRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtraHours, error) {
	query := extraHoursSelect + ` WHERE eh.id = $1`

	var row extraHoursRow
	if err := r.db.Querier(ctx).GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "extra hours", id)
	}
	eh := row.toDomain()
	return &eh, nil
}

// Create inserts an entry
func (r *ExtraHoursRepository) Create(ctx context.Context, eh *domain.ExtraHours) error {
	query := `
		INSERT INTO extra_hours (
			id, sales_person_id, amount, category, custom_extra_hours_id, description, date_time,
			created, created_by, deleted, deleted_by, update_version
		) VALUES (
			:id, :sales_person_id, :amount, :category, :custom_extra_hours_id, :description, :date_time,
			:created, :created_by, :deleted, :deleted_by, :update_version
		)
	`
	row := extraHoursRow{
		ID:                 eh.ID,
		SalesPersonID:      eh.SalesPersonID,
		Amount:             FromHours(eh.Amount),
		Category:           string(eh.Category),
		CustomExtraHoursID: eh.CustomExtraHoursID,
		Description:        eh.Description,
		DateTime:           eh.DateTime,
		lifecycleRow:       lifecycleFrom(eh.Lifecycle),
	}
	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, row); err != nil {
		return database.QueryError(err)
	}
	return nil
}

// Update writes eh if the stored version still equals expectedVersion
func (r *ExtraHoursRepository) Update(ctx context.Context, eh *domain.ExtraHours, expectedVersion uuid.UUID) error {
	query := `
		UPDATE extra_hours SET
			amount = $1, category = $2, custom_extra_hours_id = $3, description = $4, date_time = $5,
			deleted = $6, deleted_by = $7, update_version = $8
		WHERE id = $9 AND update_version = $10
	`
	res, err := r.db.Querier(ctx).ExecContext(ctx, query,
		FromHours(eh.Amount), string(eh.Category), eh.CustomExtraHoursID, eh.Description, eh.DateTime,
		eh.Deleted, eh.DeletedBy, eh.Version,
		eh.ID, expectedVersion,
	)
	if err != nil {
		return database.QueryError(err)
	}
	return expectOneRow(res, "extra hours")
}

// ============================================================================
// CUSTOM EXTRA HOURS
// ============================================================================

type customExtraHoursRow struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	lifecycleRow
}

// ListCustom returns the non-deleted custom categories
func (r *ExtraHoursRepository) ListCustom(ctx context.Context) ([]domain.CustomExtraHours, error) {
	query := `
		SELECT id, name, description, created, created_by, deleted, deleted_by, update_version
		FROM custom_extra_hours WHERE deleted IS NULL ORDER BY name
	`
	var rows []customExtraHoursRow
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, database.QueryError(err)
	}

	out := make([]domain.CustomExtraHours, len(rows))
	for i, row := range rows {
		out[i] = domain.CustomExtraHours{
			ID: row.ID, Name: row.Name, Description: row.Description,
			Lifecycle: row.lifecycleRow.toDomain(),
		}
	}
	return out, nil
}

// GetCustom returns a non-deleted custom category
func (r *ExtraHoursRepository) GetCustom(ctx context.Context, id uuid.UUID) (*domain.CustomExtraHours, error) {
	query := `
		SELECT id, name, description, created, created_by, deleted, deleted_by, update_version
		FROM custom_extra_hours WHERE id = $1 AND deleted IS NULL
	`
	var row customExtraHoursRow
	if err := r.db.Querier(ctx).GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "custom extra hours", id)
	}
	return &domain.CustomExtraHours{
		ID: row.ID, Name: row.Name, Description: row.Description,
		Lifecycle: row.lifecycleRow.toDomain(),
	}, nil
}

// CreateCustom inserts a custom category
func (r *ExtraHoursRepository) CreateCustom(ctx context.Context, c *domain.CustomExtraHours) error {
	query := `
		INSERT INTO custom_extra_hours (id, name, description, created, created_by, deleted, deleted_by, update_version)
		VALUES (:id, :name, :description, :created, :created_by, :deleted, :deleted_by, :update_version)
	`
	row := customExtraHoursRow{ID: c.ID, Name: c.Name, Description: c.Description, lifecycleRow: lifecycleFrom(c.Lifecycle)}
	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, row); err != nil {
		return database.QueryError(err)
	}
	return nil
}
