// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	source TEXT NOT NULL,
	period TEXT NOT NULL,
	from_time DATETIME,
	to_time DATETIME,
	bars INTEGER NOT NULL,
	periods INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS extrema (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	year INTEGER NOT NULL,
	period TEXT NOT NULL,
	kind TEXT NOT NULL,
	value TEXT NOT NULL,
	weekday TEXT NOT NULL,
	time DATETIME NOT NULL,
	PRIMARY KEY (run_id, year, period, kind)
);

CREATE INDEX IF NOT EXISTS idx_extrema_weekday ON extrema(run_id, kind, weekday);
`
