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

// ShiftplanRepository reads booked hours from bookings joined to slots and
// records slots and bookings.
type ShiftplanRepository struct {
	db *database.DB
}

// NewShiftplanRepository creates a new shiftplan repository
func NewShiftplanRepository(db *database.DB) *ShiftplanRepository {
	return &ShiftplanRepository{db: db}
}

type shiftplanDayRow struct {
	SalesPersonID uuid.UUID `db:"sales_person_id"`
	Year          int       `db:"year"`
	CalendarWeek  int       `db:"calendar_week"`
	DayOfWeek     int       `db:"day_of_week"`
	Hours         float64   `db:"hours"`
}

const shiftplanReportSelect = `
	SELECT b.sales_person_id, b.year, b.calendar_week, s.day_of_week,
	       SUM(EXTRACT(EPOCH FROM (s.time_to - s.time_from)) / 3600.0)::DOUBLE PRECISION AS hours
	FROM booking b
	JOIN slot s ON s.id = b.slot_id
	JOIN sales_person sp ON sp.id = b.sales_person_id
	WHERE b.deleted IS NULL AND s.deleted IS NULL AND sp.deleted IS NULL
`

const shiftplanReportGroup = `
	GROUP BY b.sales_person_id, b.year, b.calendar_week, s.day_of_week
	ORDER BY b.sales_person_id, b.year, b.calendar_week, s.day_of_week
`

func (r *ShiftplanRepository) selectDays(ctx context.Context, query string, args ...interface{}) ([]domain.ShiftplanReportDay, error) {
	var rows []shiftplanDayRow
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, database.QueryError(err)
	}

	out := make([]domain.ShiftplanReportDay, 0, len(rows))
	for _, row := range rows {
		dow, err := calendar.ParseDayOfWeek(row.DayOfWeek)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ShiftplanReportDay{
			SalesPersonID: row.SalesPersonID,
			Hours:         ToHours(row.Hours),
			Year:          row.Year,
			CalendarWeek:  row.CalendarWeek,
			DayOfWeek:     dow,
		})
	}
	return out, nil
}

// FindBySalesPerson returns booked hours per day in the ISO weeks touching [from, to]
func (r *ShiftplanRepository) FindBySalesPerson(ctx context.Context, salesPersonID uuid.UUID, from, to time.Time) ([]domain.ShiftplanReportDay, error) {
	start, end := calendar.WeekOf(from), calendar.WeekOf(to)
	query := shiftplanReportSelect + `
		AND b.sales_person_id = $1
		AND (b.year, b.calendar_week) >= ($2, $3)
		AND (b.year, b.calendar_week) <= ($4, $5)
	` + shiftplanReportGroup
	return r.selectDays(ctx, query, salesPersonID, start.Year, start.Week, end.Year, end.Week)
}

// FindForWeek returns booked hours per day of every sales person in one ISO week
func (r *ShiftplanRepository) FindForWeek(ctx context.Context, year, week int) ([]domain.ShiftplanReportDay, error) {
	query := shiftplanReportSelect + `
		AND b.year = $1 AND b.calendar_week = $2
	` + shiftplanReportGroup
	return r.selectDays(ctx, query, year, week)
}

// ============================================================================
// SLOTS AND BOOKINGS
// ============================================================================

type slotRow struct {
	ID           uuid.UUID          `db:"id"`
	DayOfWeek    int                `db:"day_of_week"`
	TimeFrom     calendar.TimeOfDay `db:"time_from"`
	TimeTo       calendar.TimeOfDay `db:"time_to"`
	MinResources int                `db:"min_resources"`
	ValidFrom    time.Time          `db:"valid_from"`
	ValidTo      *time.Time         `db:"valid_to"`
	lifecycleRow
}

// CreateSlot inserts a slot
func (r *ShiftplanRepository) CreateSlot(ctx context.Context, s *domain.Slot) error {
	query := `
		INSERT INTO slot (id, day_of_week, time_from, time_to, min_resources, valid_from, valid_to,
			created, created_by, deleted, deleted_by, update_version)
		VALUES (:id, :day_of_week, :time_from, :time_to, :min_resources, :valid_from, :valid_to,
			:created, :created_by, :deleted, :deleted_by, :update_version)
	`
	row := slotRow{
		ID:           s.ID,
		DayOfWeek:    int(s.DayOfWeek),
		TimeFrom:     s.From,
		TimeTo:       s.To,
		MinResources: s.MinResources,
		ValidFrom:    s.ValidFrom,
		ValidTo:      s.ValidTo,
		lifecycleRow: lifecycleFrom(s.Lifecycle),
	}
	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, row); err != nil {
		return database.QueryError(err)
	}
	return nil
}

// CreateBooking inserts a booking. A second live booking of the same sales
// person on the same slot and week is rejected as a conflict.
func (r *ShiftplanRepository) CreateBooking(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO booking (id, sales_person_id, slot_id, year, calendar_week,
			created, created_by, deleted, deleted_by, update_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Querier(ctx).ExecContext(ctx, query,
		b.ID, b.SalesPersonID, b.SlotID, b.Year, b.CalendarWeek,
		b.Created, b.CreatedBy, b.Deleted, b.DeletedBy, b.Version,
	)
	if err != nil {
		return database.QueryError(err)
	}
	return nil
}

// DeleteBooking soft deletes a booking
func (r *ShiftplanRepository) DeleteBooking(ctx context.Context, id uuid.UUID, deletedBy string, deleted time.Time, version uuid.UUID) error {
	query := `
		UPDATE booking SET deleted = $1, deleted_by = $2, update_version = $3
		WHERE id = $4 AND deleted IS NULL
	`
	res, err := r.db.Querier(ctx).ExecContext(ctx, query, deleted, deletedBy, version, id)
	if err != nil {
		return database.QueryError(err)
	}
	return expectOneRow(res, "booking")
}
