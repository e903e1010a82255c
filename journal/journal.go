// journal/journal.go
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxweekday/extremum"
)

// Run describes one aggregation run.
type Run struct {
	ID         string
	Instrument string
	Source     string // csv path or "oanda"
	Period     string // week, isoweek, month, quarter
	From       time.Time
	To         time.Time
	Bars       int
	Periods    int
	CreatedAt  time.Time
}

// ExtremumRow is one selected high or low. Year is the slice year for
// yearly runs and 0 for whole-range runs.
type ExtremumRow struct {
	RunID   string
	Year    int
	Period  string
	Kind    string
	Value   decimal.Decimal
	Weekday string
	Time    time.Time
}

type Journal interface {
	RecordRun(Run) error
	RecordExtrema(rows []ExtremumRow) error
	Close() error
}

// Rows converts aggregation records into journal rows.
func Rows(runID string, year int, res extremum.Result) []ExtremumRow {
	rows := make([]ExtremumRow, 0, len(res.Records))
	for _, r := range res.Records {
		rows = append(rows, ExtremumRow{
			RunID:   runID,
			Year:    year,
			Period:  r.Period.String(),
			Kind:    r.Kind.String(),
			Value:   r.Value,
			Weekday: r.Weekday.String(),
			Time:    r.Time,
		})
	}
	return rows
}

// Open returns the journal for kind ("sqlite" or "csv"). An empty kind or
// "none" returns a nil Journal and no error.
func Open(kind, path string) (Journal, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "none":
		return nil, nil
	case "sqlite":
		if path == "" {
			return nil, fmt.Errorf("journal: sqlite needs a path")
		}
		return NewSQLite(path)
	case "csv":
		if path == "" {
			return nil, fmt.Errorf("journal: csv needs a path")
		}
		return NewCSV(path)
	default:
		return nil, fmt.Errorf("journal: unknown type %q (want sqlite|csv)", kind)
	}
}
