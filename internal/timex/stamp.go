package timex

import (
	"fmt"
	"time"
)

// StampLayout is the persisted form of record timestamps: ISO-8601 in UTC
// with a fixed nine-digit fraction, so byte order equals time order.
const StampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatStamp renders t in StampLayout after converting it to UTC.
func FormatStamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// ParseStamp parses any RFC 3339 timestamp (fixed width or not) and returns
// it in UTC. An empty string yields the zero time.
func ParseStamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
