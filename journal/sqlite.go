package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, instrument, source, period, from_time, to_time, bars, periods, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Instrument, r.Source, r.Period,
		r.From, r.To, r.Bars, r.Periods, r.CreatedAt,
	)
	return err
}

// RecordExtrema inserts rows in one transaction.
func (j *SQLite) RecordExtrema(rows []ExtremumRow) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO extrema
		(run_id, year, period, kind, value, weekday, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.RunID, r.Year, r.Period, r.Kind, r.Value.String(), r.Weekday, r.Time); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s %s %s: %w", r.RunID, r.Period, r.Kind, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
