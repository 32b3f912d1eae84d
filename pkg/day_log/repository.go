package day_log

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/learningjourney/journey/pkg/calendar"
)

const dayFormat = "2006-01-02"

// Repository persists day statuses. Days are stored as plain dates and read back as day keys
// of the configured calendar.
type Repository interface {
	Upsert(ctx context.Context, day time.Time, status DayStatus) error
	// GetRange returns the entries for days in [from, to).
	GetRange(ctx context.Context, from time.Time, to time.Time) ([]Entry, error)
	GetAll(ctx context.Context) ([]Entry, error)
	DeleteAll(ctx context.Context) (int, error)
}

type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type repositoryImpl struct {
	db       queryer
	calendar calendar.Calendar
}

func NewRepo(db queryer, cal calendar.Calendar) Repository {
	return &repositoryImpl{db: db, calendar: cal}
}

func (r *repositoryImpl) Upsert(ctx context.Context, day time.Time, status DayStatus) error {
	query := `INSERT INTO day_status (day, status, updated_at)
			  VALUES ($1::date, $2, now())
			  ON CONFLICT (day) DO UPDATE SET status = EXCLUDED.status, updated_at = now()`
	_, err := r.db.Exec(ctx, query, r.calendar.StartOfDay(day).Format(dayFormat), string(status))
	if err != nil {
		return fmt.Errorf("failed to store status for %s: %w", day.Format(dayFormat), err)
	}
	return nil
}

func (r *repositoryImpl) GetRange(ctx context.Context, from time.Time, to time.Time) ([]Entry, error) {
	query := `SELECT day::text, status FROM day_status
			  WHERE day >= $1::date AND day < $2::date
			  ORDER BY day`
	rows, err := r.db.Query(ctx, query,
		r.calendar.StartOfDay(from).Format(dayFormat),
		r.calendar.StartOfDay(to).Format(dayFormat),
	)
	if err != nil {
		return nil, err
	}
	return r.scanEntries(rows)
}

func (r *repositoryImpl) GetAll(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT day::text, status FROM day_status ORDER BY day`)
	if err != nil {
		return nil, err
	}
	return r.scanEntries(rows)
}

func (r *repositoryImpl) DeleteAll(ctx context.Context) (int, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM day_status`)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *repositoryImpl) scanEntries(rows pgx.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var dayString, statusString string
		if err := rows.Scan(&dayString, &statusString); err != nil {
			return nil, err
		}
		day, err := time.Parse(dayFormat, dayString)
		if err != nil {
			return nil, fmt.Errorf("could not parse day %q: %w", dayString, err)
		}
		status, err := ParseStatus(statusString)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Day: r.calendar.Date(day.Date()), Status: status})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
