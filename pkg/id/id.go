// Package id issues run identifiers.
package id

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID for the current time. IDs issued by one process
// sort in issue order, so runs list chronologically by id.
func New() string {
	return ulid.Make().String()
}

// NewAt returns a ULID whose timestamp part is t. Times before the unix
// epoch are rejected.
func NewAt(t time.Time) (string, error) {
	if t.Before(time.Unix(0, 0)) {
		return "", fmt.Errorf("id: %s is before the unix epoch", t.Format(time.RFC3339))
	}
	u, err := ulid.New(ulid.Timestamp(t), ulid.DefaultEntropy())
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Time extracts the timestamp of a run id.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()).UTC(), nil
}
