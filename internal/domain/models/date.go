package models

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate accepts either a calendar date or an RFC 3339 timestamp and
// returns it in UTC. An empty string yields the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, Invalid("Format tanggal tidak valid")
	}
	return t.UTC(), nil
}

// EndOfDay moves a calendar date to its last instant so inclusive ranges
// cover the whole day.
func EndOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
