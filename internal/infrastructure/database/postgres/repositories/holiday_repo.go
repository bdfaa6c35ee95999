package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/legaldefense/plazos/internal/infrastructure/database/postgres"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
	"github.com/legaldefense/plazos/pkg/errors"
)

// queryExecutor is satisfied by both sql.DB and sql.Tx.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type baseRepo struct {
	conn *postgres.Connection
	tx   *sql.Tx
	log  logging.Logger
}

func (r *baseRepo) executor() queryExecutor {
	if r.tx != nil {
		return r.tx
	}
	return r.conn.DB()
}

// Holiday is one official non-working date.
type Holiday struct {
	Date time.Time
	Name string
}

// HolidayRepository stores the official holiday calendar. Its Holidays
// method satisfies calendar.HolidayProvider, so the repository can back the
// working calendar directly.
type HolidayRepository interface {
	Holidays(ctx context.Context, year int) ([]time.Time, error)
	ListByYear(ctx context.Context, year int) ([]Holiday, error)
	SaveYear(ctx context.Context, year int, holidays []Holiday) error
	Years(ctx context.Context) ([]int, error)
}

type postgresHolidayRepo struct {
	baseRepo
}

// NewHolidayRepository builds a HolidayRepository over the connection.
func NewHolidayRepository(conn *postgres.Connection, log logging.Logger) HolidayRepository {
	return &postgresHolidayRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

func (r *postgresHolidayRepo) Holidays(ctx context.Context, year int) ([]time.Time, error) {
	rows, err := r.executor().QueryContext(ctx,
		`SELECT day FROM festivos WHERE year = $1 ORDER BY day`, year)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "holiday query failed")
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "holiday scan failed")
		}
		days = append(days, d.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "holiday iteration failed")
	}
	return days, nil
}

func (r *postgresHolidayRepo) ListByYear(ctx context.Context, year int) ([]Holiday, error) {
	rows, err := r.executor().QueryContext(ctx,
		`SELECT day, name FROM festivos WHERE year = $1 ORDER BY day`, year)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "holiday query failed")
	}
	defer rows.Close()

	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "holiday scan failed")
		}
		h.Date = h.Date.UTC()
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "holiday iteration failed")
	}
	return holidays, nil
}

// SaveYear replaces the stored calendar of one year atomically.
func (r *postgresHolidayRepo) SaveYear(ctx context.Context, year int, holidays []Holiday) error {
	for _, h := range holidays {
		if h.Date.Year() != year {
			return errors.Newf(errors.ErrCodeValidation,
				"holiday %s does not belong to year %d", h.Date.Format("2006-01-02"), year)
		}
	}

	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "begin transaction failed")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM festivos WHERE year = $1`, year); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "holiday delete failed")
	}
	for _, h := range holidays {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO festivos (year, day, name) VALUES ($1, $2, $3)`,
			year, h.Date, h.Name); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "holiday insert failed")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "commit failed")
	}
	r.log.Info("holiday calendar saved",
		logging.Int("year", year), logging.Int("holidays", len(holidays)))
	return nil
}

func (r *postgresHolidayRepo) Years(ctx context.Context) ([]int, error) {
	rows, err := r.executor().QueryContext(ctx,
		`SELECT DISTINCT year FROM festivos ORDER BY year`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "year query failed")
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "year scan failed")
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "year iteration failed")
	}
	return years, nil
}
