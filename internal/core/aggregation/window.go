package aggregation

import (
	"fmt"
	"time"

	v1 "github.com/tally-lab/tally/internal/api/v1"
)

// DayFor truncates an instant to its UTC calendar day.
// Example: DayFor(2026-03-01T23:30:00-02:00) → 2026-03-02T00:00:00Z
func DayFor(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD rollup day.
func ParseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(v1.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}
