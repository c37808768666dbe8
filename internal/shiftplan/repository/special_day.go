package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
	"github.com/shifty/shifty-backend/pkg/database"
)

type specialDayRow struct {
	ID           uuid.UUID           `db:"id"`
	Year         int                 `db:"year"`
	CalendarWeek int                 `db:"calendar_week"`
	DayOfWeek    int                 `db:"day_of_week"`
	DayType      string              `db:"day_type"`
	TimeOfDay    *calendar.TimeOfDay `db:"time_of_day"`
	lifecycleRow
}

func (r specialDayRow) toDomain() (domain.SpecialDay, error) {
	dow, err := calendar.ParseDayOfWeek(r.DayOfWeek)
	if err != nil {
		return domain.SpecialDay{}, err
	}
	return domain.SpecialDay{
		ID:           r.ID,
		Year:         r.Year,
		CalendarWeek: r.CalendarWeek,
		DayOfWeek:    dow,
		DayType:      domain.SpecialDayType(r.DayType),
		TimeOfDay:    r.TimeOfDay,
		Lifecycle:    r.lifecycleRow.toDomain(),
	}, nil
}

// SpecialDayRepository handles holiday and short day persistence
type SpecialDayRepository struct {
	db *database.DB
}

// NewSpecialDayRepository creates a new special day repository
func NewSpecialDayRepository(db *database.DB) *SpecialDayRepository {
	return &SpecialDayRepository{db: db}
}

const specialDayColumns = `id, year, calendar_week, day_of_week, day_type, time_of_day,
	created, created_by, deleted, deleted_by, update_version`

func (r *SpecialDayRepository) selectAll(ctx context.Context, query string, args ...interface{}) ([]domain.SpecialDay, error) {
	var rows []specialDayRow
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, database.QueryError(err)
	}

	out := make([]domain.SpecialDay, 0, len(rows))
	for _, row := range rows {
		sd, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, sd)
	}
	return out, nil
}

// FindForWeek returns the non-deleted special days of one ISO week
func (r *SpecialDayRepository) FindForWeek(ctx context.Context, year, week int) ([]domain.SpecialDay, error) {
	query := `SELECT ` + specialDayColumns + ` FROM special_day
		WHERE year = $1 AND calendar_week = $2 AND deleted IS NULL
		ORDER BY day_of_week`
	return r.selectAll(ctx, query, year, week)
}

// FindRange returns the non-deleted special days in the ISO weeks touching [from, to]
func (r *SpecialDayRepository) FindRange(ctx context.Context, from, to time.Time) ([]domain.SpecialDay, error) {
	start, end := calendar.WeekOf(from), calendar.WeekOf(to)
	query := `SELECT ` + specialDayColumns + ` FROM special_day
		WHERE deleted IS NULL
		  AND (year, calendar_week) >= ($1, $2)
		  AND (year, calendar_week) <= ($3, $4)
		ORDER BY year, calendar_week, day_of_week`
	return r.selectAll(ctx, query, start.Year, start.Week, end.Year, end.Week)
}

// GetByID returns a special day including soft deleted ones
func (r *SpecialDayRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SpecialDay, error) {
	query := `SELECT ` + specialDayColumns + ` FROM special_day WHERE id = $1`

	var row specialDayRow
	if err := r.db.Querier(ctx).GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "special day", id)
	}
	sd, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &sd, nil
}

// Create inserts a special day
func (r *SpecialDayRepository) Create(ctx context.Context, sd *domain.SpecialDay) error {
	query := `
		INSERT INTO special_day (` + specialDayColumns + `)
		VALUES (:id, :year, :calendar_week, :day_of_week, :day_type, :time_of_day,
			:created, :created_by, :deleted, :deleted_by, :update_version)
	`
	row := specialDayRow{
		ID:           sd.ID,
		Year:         sd.Year,
		CalendarWeek: sd.CalendarWeek,
		DayOfWeek:    int(sd.DayOfWeek),
		DayType:      string(sd.DayType),
		TimeOfDay:    sd.TimeOfDay,
		lifecycleRow: lifecycleFrom(sd.Lifecycle),
	}
	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, row); err != nil {
		return database.QueryError(err)
	}
	return nil
}

// SoftDelete marks a special day deleted if its version still equals expectedVersion
func (r *SpecialDayRepository) SoftDelete(ctx context.Context, sd *domain.SpecialDay, expectedVersion uuid.UUID) error {
	query := `
		UPDATE special_day SET deleted = $1, deleted_by = $2, update_version = $3
		WHERE id = $4 AND update_version = $5
	`
	res, err := r.db.Querier(ctx).ExecContext(ctx, query, sd.Deleted, sd.DeletedBy, sd.Version, sd.ID, expectedVersion)
	if err != nil {
		return database.QueryError(err)
	}
	return expectOneRow(res, "special day")
}
