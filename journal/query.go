package journal

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	var r Run

	row := j.db.QueryRow(`
		SELECT run_id, instrument, source, period, from_time, to_time, bars, periods, created_at
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(&r.ID, &r.Instrument, &r.Source, &r.Period,
		&r.From, &r.To, &r.Bars, &r.Periods, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns every run, oldest first.
func (j *SQLite) ListRuns() ([]Run, error) {
	rows, err := j.db.Query(`
		SELECT run_id, instrument, source, period, from_time, to_time, bars, periods, created_at
		FROM runs
		ORDER BY run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Instrument, &r.Source, &r.Period,
			&r.From, &r.To, &r.Bars, &r.Periods, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListExtrema returns the rows of a run ordered by year, period, kind.
func (j *SQLite) ListExtrema(runID string) ([]ExtremumRow, error) {
	rows, err := j.db.Query(`
		SELECT run_id, year, period, kind, value, weekday, time
		FROM extrema
		WHERE run_id = ?
		ORDER BY year, period, kind`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExtremumRow
	for rows.Next() {
		var r ExtremumRow
		if err := rows.Scan(&r.RunID, &r.Year, &r.Period, &r.Kind, &r.Value, &r.Weekday, &r.Time); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// WeekdayCounts recomputes a run's distribution for kind ("high" or
// "low") from the stored rows.
func (j *SQLite) WeekdayCounts(runID, kind string) (map[string]int, error) {
	rows, err := j.db.Query(`
		SELECT weekday, COUNT(*)
		FROM extrema
		WHERE run_id = ? AND kind = ?
		GROUP BY weekday`, runID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			day string
			n   int
		)
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		out[day] = n
	}
	return out, rows.Err()
}
