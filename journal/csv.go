package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV writes extremum rows to a single file. Runs are not written; the
// run id column ties rows together.
type CSV struct {
	w *csv.Writer
	f *os.File
}

var csvHeader = []string{"run_id", "year", "period", "kind", "value", "weekday", "time"}

func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordRun(Run) error { return nil }

func (j *CSV) RecordExtrema(rows []ExtremumRow) error {
	for _, r := range rows {
		err := j.w.Write([]string{
			r.RunID,
			strconv.Itoa(r.Year),
			r.Period,
			r.Kind,
			r.Value.String(),
			r.Weekday,
			r.Time.Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		_ = j.f.Close()
		return err
	}
	return j.f.Close()
}
