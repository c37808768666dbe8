package testutil

// ShiftyMigrations returns the shiftplan schema as ordered statements.
// Every table carries the same audit columns and soft deletes via deleted.
func ShiftyMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sales_person (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			inactive BOOLEAN NOT NULL DEFAULT FALSE,
			is_paid BOOLEAN NOT NULL DEFAULT FALSE,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS slot (
			id UUID PRIMARY KEY,
			day_of_week SMALLINT NOT NULL,
			time_from TIME NOT NULL,
			time_to TIME NOT NULL,
			min_resources INTEGER NOT NULL DEFAULT 1,
			valid_from DATE NOT NULL,
			valid_to DATE,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL,
			CONSTRAINT slot_day_of_week CHECK (day_of_week BETWEEN 1 AND 7),
			CONSTRAINT slot_time_order CHECK (time_from < time_to)
		)`,

		`CREATE TABLE IF NOT EXISTS booking (
			id UUID PRIMARY KEY,
			sales_person_id UUID NOT NULL REFERENCES sales_person(id),
			slot_id UUID NOT NULL REFERENCES slot(id),
			year INTEGER NOT NULL,
			calendar_week INTEGER NOT NULL,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS booking_unique
			ON booking (sales_person_id, slot_id, year, calendar_week) WHERE deleted IS NULL`,
		`CREATE INDEX IF NOT EXISTS booking_week ON booking (year, calendar_week)`,

		`CREATE TABLE IF NOT EXISTS working_hours (
			id UUID PRIMARY KEY,
			sales_person_id UUID NOT NULL REFERENCES sales_person(id),
			expected_hours DOUBLE PRECISION NOT NULL,
			from_year INTEGER NOT NULL,
			from_calendar_week INTEGER NOT NULL,
			from_day_of_week SMALLINT NOT NULL DEFAULT 1,
			to_year INTEGER NOT NULL,
			to_calendar_week INTEGER NOT NULL,
			to_day_of_week SMALLINT NOT NULL DEFAULT 7,
			monday BOOLEAN NOT NULL DEFAULT FALSE,
			tuesday BOOLEAN NOT NULL DEFAULT FALSE,
			wednesday BOOLEAN NOT NULL DEFAULT FALSE,
			thursday BOOLEAN NOT NULL DEFAULT FALSE,
			friday BOOLEAN NOT NULL DEFAULT FALSE,
			saturday BOOLEAN NOT NULL DEFAULT FALSE,
			sunday BOOLEAN NOT NULL DEFAULT FALSE,
			workdays_per_week INTEGER NOT NULL DEFAULT 5,
			vacation_days INTEGER NOT NULL DEFAULT 0,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL,
			CONSTRAINT working_hours_day_of_week CHECK (
				from_day_of_week BETWEEN 1 AND 7 AND to_day_of_week BETWEEN 1 AND 7
			)
		)`,
		`CREATE INDEX IF NOT EXISTS working_hours_sales_person ON working_hours (sales_person_id)`,

		`CREATE TABLE IF NOT EXISTS custom_extra_hours (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS extra_hours (
			id UUID PRIMARY KEY,
			sales_person_id UUID NOT NULL REFERENCES sales_person(id),
			amount DOUBLE PRECISION NOT NULL,
			category VARCHAR(32) NOT NULL,
			custom_extra_hours_id UUID REFERENCES custom_extra_hours(id),
			description TEXT NOT NULL DEFAULT '',
			date_time TIMESTAMPTZ NOT NULL,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL,
			CONSTRAINT extra_hours_category_valid CHECK (category IN (
				'extra_work', 'vacation', 'sick_leave', 'holiday', 'unavailable', 'custom'
			))
		)`,
		`CREATE INDEX IF NOT EXISTS extra_hours_sales_person_date ON extra_hours (sales_person_id, date_time)`,

		`CREATE TABLE IF NOT EXISTS special_day (
			id UUID PRIMARY KEY,
			year INTEGER NOT NULL,
			calendar_week INTEGER NOT NULL,
			day_of_week SMALLINT NOT NULL,
			day_type VARCHAR(16) NOT NULL,
			time_of_day TIME,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL,
			CONSTRAINT special_day_day_of_week CHECK (day_of_week BETWEEN 1 AND 7)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS special_day_unique
			ON special_day (year, calendar_week, day_of_week, day_type) WHERE deleted IS NULL`,

		`CREATE TABLE IF NOT EXISTS employee_yearly_carryover (
			sales_person_id UUID NOT NULL REFERENCES sales_person(id),
			year INTEGER NOT NULL,
			carryover_hours DOUBLE PRECISION NOT NULL,
			vacation INTEGER NOT NULL DEFAULT 0,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL,
			PRIMARY KEY (sales_person_id, year)
		)`,

		`CREATE TABLE IF NOT EXISTS billing_period (
			id UUID PRIMARY KEY,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL,
			CONSTRAINT billing_period_period_order CHECK (start_date <= end_date)
		)`,

		`CREATE TABLE IF NOT EXISTS billing_period_sales_person (
			id UUID PRIMARY KEY,
			billing_period_id UUID NOT NULL REFERENCES billing_period(id),
			sales_person_id UUID NOT NULL REFERENCES sales_person(id),
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_by TEXT NOT NULL DEFAULT '',
			deleted TIMESTAMPTZ,
			deleted_by TEXT,
			update_version UUID NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS billing_period_value (
			billing_period_sales_person_id UUID NOT NULL REFERENCES billing_period_sales_person(id),
			value_type VARCHAR(255) NOT NULL,
			value_delta DOUBLE PRECISION NOT NULL,
			value_ytd_from DOUBLE PRECISION NOT NULL,
			value_ytd_to DOUBLE PRECISION NOT NULL,
			value_full_year DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (billing_period_sales_person_id, value_type)
		)`,
	}
}

// shiftyTables lists the tables children first so they can be truncated together.
var shiftyTables = []string{
	"billing_period_value",
	"billing_period_sales_person",
	"billing_period",
	"employee_yearly_carryover",
	"special_day",
	"extra_hours",
	"custom_extra_hours",
	"working_hours",
	"booking",
	"slot",
	"sales_person",
}
