package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/database"
)

type workingHoursRow struct {
	ID              uuid.UUID `db:"id"`
	SalesPersonID   uuid.UUID `db:"sales_person_id"`
	ExpectedHours   float64   `db:"expected_hours"`
	FromYear        int       `db:"from_year"`
	FromWeek        int       `db:"from_calendar_week"`
	FromDayOfWeek   int       `db:"from_day_of_week"`
	ToYear          int       `db:"to_year"`
	ToWeek          int       `db:"to_calendar_week"`
	ToDayOfWeek     int       `db:"to_day_of_week"`
	Monday          bool      `db:"monday"`
	Tuesday         bool      `db:"tuesday"`
	Wednesday       bool      `db:"wednesday"`
	Thursday        bool      `db:"thursday"`
	Friday          bool      `db:"friday"`
	Saturday        bool      `db:"saturday"`
	Sunday          bool      `db:"sunday"`
	WorkdaysPerWeek int       `db:"workdays_per_week"`
	VacationDays    int       `db:"vacation_days"`
	lifecycleRow
}

func (r workingHoursRow) toDomain() (domain.WorkingHours, error) {
	fromDay, err := calendar.ParseDayOfWeek(r.FromDayOfWeek)
	if err != nil {
		return domain.WorkingHours{}, err
	}
	toDay, err := calendar.ParseDayOfWeek(r.ToDayOfWeek)
	if err != nil {
		return domain.WorkingHours{}, err
	}

	return domain.WorkingHours{
		ID:              r.ID,
		SalesPersonID:   r.SalesPersonID,
		ExpectedHours:   ToHours(r.ExpectedHours),
		FromYear:        r.FromYear,
		FromWeek:        r.FromWeek,
		FromDayOfWeek:   fromDay,
		ToYear:          r.ToYear,
		ToWeek:          r.ToWeek,
		ToDayOfWeek:     toDay,
		Monday:          r.Monday,
		Tuesday:         r.Tuesday,
		Wednesday:       r.Wednesday,
		Thursday:        r.Thursday,
		Friday:          r.Friday,
		Saturday:        r.Saturday,
		Sunday:          r.Sunday,
		WorkdaysPerWeek: r.WorkdaysPerWeek,
		VacationDays:    r.VacationDays,
		Lifecycle:       r.lifecycleRow.toDomain(),
	}, nil
}

func workingHoursRowFrom(w *domain.WorkingHours) workingHoursRow {
	return workingHoursRow{
		ID:              w.ID,
		SalesPersonID:   w.SalesPersonID,
		ExpectedHours:   FromHours(w.ExpectedHours),
		FromYear:        w.FromYear,
		FromWeek:        w.FromWeek,
		FromDayOfWeek:   int(w.FromDayOfWeek),
		ToYear:          w.ToYear,
		ToWeek:          w.ToWeek,
		ToDayOfWeek:     int(w.ToDayOfWeek),
		Monday:          w.Monday,
		Tuesday:         w.Tuesday,
		Wednesday:       w.Wednesday,
		Thursday:        w.Thursday,
		Friday:          w.Friday,
		Saturday:        w.Saturday,
		Sunday:          w.Sunday,
		WorkdaysPerWeek: w.WorkdaysPerWeek,
		VacationDays:    w.VacationDays,
		lifecycleRow:    lifecycleFrom(w.Lifecycle),
	}
}

// WorkingHoursRepository handles contract persistence
type WorkingHoursRepository struct {
	db *database.DB
}

// NewWorkingHoursRepository creates a new working hours repository
func NewWorkingHoursRepository(db *database.DB) *WorkingHoursRepository {
	return &WorkingHoursRepository{db: db}
}

const workingHoursColumns = `id, sales_person_id, expected_hours,
	from_year, from_calendar_week, from_day_of_week, to_year, to_calendar_week, to_day_of_week,
	monday, tuesday, wednesday, thursday, friday, saturday, sunday,
	workdays_per_week, vacation_days, created, created_by, deleted, deleted_by, update_version`

func (r *WorkingHoursRepository) selectAll(ctx context.Context, query string, args ...interface{}) ([]domain.WorkingHours, error) {
	var rows []workingHoursRow
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, database.QueryError(err)
	}

	out := make([]domain.WorkingHours, 0, len(rows))
	for _, row := range rows {
		wh, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, wh)
	}
	return out, nil
}

// FindBySalesPerson returns the non-deleted contracts of a sales person
func (r *WorkingHoursRepository) FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID) ([]domain.WorkingHours, error) {
	query := `SELECT ` + workingHoursColumns + ` FROM working_hours
		WHERE sales_person_id = $1 AND deleted IS NULL
		ORDER BY from_year, from_calendar_week`
	return r.selectAll(ctx, query, salesPersonID)
}

// FindForWeek returns the contracts whose week range contains (year, week)
func (r *WorkingHoursRepository) FindForWeek(ctx context.Context, year, week int) ([]domain.WorkingHours, error) {
	query := `SELECT ` + workingHoursColumns + ` FROM working_hours
		WHERE deleted IS NULL
		  AND (from_year, from_calendar_week) <= ($1, $2)
		  AND (to_year, to_calendar_week) >= ($1, $2)
		ORDER BY sales_person_id`
	return r.selectAll(ctx, query, year, week)
}

// GetByID returns a contract including soft deleted ones
func (r *WorkingHoursRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkingHours, error) {
	query := `SELECT ` + workingHoursColumns + ` FROM working_hours WHERE id = $1`

	var row workingHoursRow
	if err := r.db.Querier(ctx).GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "working hours", id)
	}
	wh, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

// Create inserts a contract
func (r *WorkingHoursRepository) Create(ctx context.Context, w *domain.WorkingHours) error {
	query := `
		INSERT INTO working_hours (` + workingHoursColumns + `)
		VALUES (:id, :sales_person_id, :expected_hours,
			:from_year, :from_calendar_week, :from_day_of_week, :to_year, :to_calendar_week, :to_day_of_week,
			:monday, :tuesday, :wednesday, :thursday, :friday, :saturday, :sunday,
			:workdays_per_week, :vacation_days, :created, :created_by, :deleted, :deleted_by, :update_version)
	`
	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, workingHoursRowFrom(w)); err != nil {
		return database.QueryError(err)
	}
	return nil
}

// Update writes w if the stored version still equals expectedVersion.
// Deleting is an update that sets deleted and deleted_by.
func (r *WorkingHoursRepository) Update(ctx context.Context, w *domain.WorkingHours, expectedVersion uuid.UUID) error {
	query := `
		UPDATE working_hours SET
			expected_hours = $1,
			from_year = $2, from_calendar_week = $3, from_day_of_week = $4,
			to_year = $5, to_calendar_week = $6, to_day_of_week = $7,
			monday = $8, tuesday = $9, wednesday = $10, thursday = $11,
			friday = $12, saturday = $13, sunday = $14,
			workdays_per_week = $15, vacation_days = $16,
			deleted = $17, deleted_by = $18, update_version = $19
		WHERE id = $20 AND update_version = $21
	`
	row := workingHoursRowFrom(w)
	res, err := r.db.Querier(ctx).ExecContext(ctx, query,
		row.ExpectedHours,
		row.FromYear, row.FromWeek, row.FromDayOfWeek,
		row.ToYear, row.ToWeek, row.ToDayOfWeek,
		row.Monday, row.Tuesday, row.Wednesday, row.Thursday,
		row.Friday, row.Saturday, row.Sunday,
		row.WorkdaysPerWeek, row.VacationDays,
		row.Deleted, row.DeletedBy, row.Version,
		row.ID, expectedVersion,
	)
	if err != nil {
		return database.QueryError(err)
	}
	return expectOneRow(res, "working hours")
}
