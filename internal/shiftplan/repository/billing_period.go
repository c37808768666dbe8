package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/database"
)

type billingPeriodRow struct {
	ID        uuid.UUID `db:"id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	lifecycleRow
}

func (r billingPeriodRow) toDomain() domain.BillingPeriod {
	return domain.BillingPeriod{
		ID:        r.ID,
		StartDate: r.StartDate.UTC(),
		EndDate:   r.EndDate.UTC(),
		Lifecycle: r.lifecycleRow.toDomain(),
	}
}

type billingPeriodSalesPersonRow struct {
	ID              uuid.UUID `db:"id"`
	BillingPeriodID uuid.UUID `db:"billing_period_id"`
	SalesPersonID   uuid.UUID `db:"sales_person_id"`
	lifecycleRow
}

type billingPeriodValueRow struct {
	BillingPeriodSalesPersonID uuid.UUID `db:"billing_period_sales_person_id"`
	ValueType                  string    `db:"value_type"`
	Delta                      float64   `db:"value_delta"`
	YTDFrom                    float64   `db:"value_ytd_from"`
	YTDTo                      float64   `db:"value_ytd_to"`
	FullYear                   float64   `db:"value_full_year"`
}

// BillingPeriodRepository persists billing periods with their frozen values
type BillingPeriodRepository struct {
	db *database.DB
}

// NewBillingPeriodRepository creates a new billing period repository
func NewBillingPeriodRepository(db *database.DB) *BillingPeriodRepository {
	return &BillingPeriodRepository{db: db}
}

const billingPeriodColumns = `id, start_date, end_date, created, created_by, deleted, deleted_by, update_version`

// GetAll returns the non-deleted billing periods without their values, newest first
func (r *BillingPeriodRepository) GetAll(ctx context.Context) ([]domain.BillingPeriod, error) {
	query := `SELECT ` + billingPeriodColumns + ` FROM billing_period
		WHERE deleted IS NULL ORDER BY start_date DESC`

	var rows []billingPeriodRow
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, database.QueryError(err)
	}

	out := make([]domain.BillingPeriod, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// GetByID returns a non-deleted billing period with every sales person and value
func (r *BillingPeriodRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillingPeriod, error) {
	q := r.db.Querier(ctx)

	var row billingPeriodRow
	query := `SELECT ` + billingPeriodColumns + ` FROM billing_period WHERE id = $1 AND deleted IS NULL`
	if err := q.GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "billing period", id)
	}
	period := row.toDomain()

	var persons []billingPeriodSalesPersonRow
	query = `
		SELECT id, billing_period_id, sales_person_id, created, created_by, deleted, deleted_by, update_version
		FROM billing_period_sales_person
		WHERE billing_period_id = $1 AND deleted IS NULL
		ORDER BY sales_person_id
	`
	if err := q.SelectContext(ctx, &persons, query, id); err != nil {
		return nil, database.QueryError(err)
	}

	var values []billingPeriodValueRow
	query = `
		SELECT v.billing_period_sales_person_id, v.value_type,
		       v.value_delta, v.value_ytd_from, v.value_ytd_to, v.value_full_year
		FROM billing_period_value v
		JOIN billing_period_sales_person bps ON bps.id = v.billing_period_sales_person_id
		WHERE bps.billing_period_id = $1 AND bps.deleted IS NULL
	`
	if err := q.SelectContext(ctx, &values, query, id); err != nil {
		return nil, database.QueryError(err)
	}

	byPerson := make(map[uuid.UUID]map[string]domain.BillingPeriodValue, len(persons))
	for _, v := range values {
		m, ok := byPerson[v.BillingPeriodSalesPersonID]
		if !ok {
			m = make(map[string]domain.BillingPeriodValue)
			byPerson[v.BillingPeriodSalesPersonID] = m
		}
		m[v.ValueType] = domain.BillingPeriodValue{
			Delta:    ToHours(v.Delta),
			YTDFrom:  ToHours(v.YTDFrom),
			YTDTo:    ToHours(v.YTDTo),
			FullYear: ToHours(v.FullYear),
		}
	}

	period.SalesPersons = make([]domain.BillingPeriodSalesPerson, len(persons))
	for i, p := range persons {
		vals := byPerson[p.ID]
		if vals == nil {
			vals = map[string]domain.BillingPeriodValue{}
		}
		period.SalesPersons[i] = domain.BillingPeriodSalesPerson{
			ID:              p.ID,
			BillingPeriodID: p.BillingPeriodID,
			SalesPersonID:   p.SalesPersonID,
			Values:          vals,
			Lifecycle:       p.lifecycleRow.toDomain(),
		}
	}
	return &period, nil
}

// LatestEndDate returns the end date of the newest non-deleted period, or nil
func (r *BillingPeriodRepository) LatestEndDate(ctx context.Context) (*time.Time, error) {
	var end *time.Time
	query := `SELECT MAX(end_date) FROM billing_period WHERE deleted IS NULL`
	if err := r.db.Querier(ctx).GetContext(ctx, &end, query); err != nil {
		return nil, database.QueryError(err)
	}
	if end != nil {
		t := end.UTC()
		end = &t
	}
	return end, nil
}

// Create inserts a billing period together with its sales persons and values.
// Callers wrap it in a transaction.
func (r *BillingPeriodRepository) Create(ctx context.Context, p *domain.BillingPeriod) error {
	q := r.db.Querier(ctx)

	query := `INSERT INTO billing_period (` + billingPeriodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := q.ExecContext(ctx, query,
		p.ID, p.StartDate, p.EndDate, p.Created, p.CreatedBy, p.Deleted, p.DeletedBy, p.Version)
	if err != nil {
		return database.QueryError(err)
	}

	for _, sp := range p.SalesPersons {
		query = `
			INSERT INTO billing_period_sales_person (
				id, billing_period_id, sales_person_id, created, created_by, deleted, deleted_by, update_version
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err = q.ExecContext(ctx, query,
			sp.ID, p.ID, sp.SalesPersonID, sp.Created, sp.CreatedBy, sp.Deleted, sp.DeletedBy, sp.Version)
		if err != nil {
			return database.QueryError(err)
		}

		for valueType, v := range sp.Values {
			query = `
				INSERT INTO billing_period_value (
					billing_period_sales_person_id, value_type,
					value_delta, value_ytd_from, value_ytd_to, value_full_year
				) VALUES ($1, $2, $3, $4, $5, $6)
			`
			_, err = q.ExecContext(ctx, query, sp.ID, valueType,
				FromHours(v.Delta), FromHours(v.YTDFrom), FromHours(v.YTDTo), FromHours(v.FullYear))
			if err != nil {
				return database.QueryError(err)
			}
		}
	}
	return nil
}

// ClearAll soft deletes every live billing period and its sales persons
func (r *BillingPeriodRepository) ClearAll(ctx context.Context, deletedBy string, deleted time.Time, version uuid.UUID) (int64, error) {
	q := r.db.Querier(ctx)

	query := `
		UPDATE billing_period_sales_person SET deleted = $1, deleted_by = $2, update_version = $3
		WHERE deleted IS NULL
	`
	if _, err := q.ExecContext(ctx, query, deleted, deletedBy, version); err != nil {
		return 0, database.QueryError(err)
	}

	query = `
		UPDATE billing_period SET deleted = $1, deleted_by = $2, update_version = $3
		WHERE deleted IS NULL
	`
	res, err := q.ExecContext(ctx, query, deleted, deletedBy, version)
	if err != nil {
		return 0, database.QueryError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, database.QueryError(err)
	}
	return n, nil
}
