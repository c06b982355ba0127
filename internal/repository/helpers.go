package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// nullableIDToValue converts an optional foreign key for storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableIDToValue(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// nullableID converts a scanned sql.NullInt64 back to an optional id.
func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t, nil
}

// nowUTC is replaced in tests that need stable timestamps.
var nowUTC = func() time.Time {
	return time.Now().UTC()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
