package utils

import "time"

// FormatTimestamp renders t in UTC for storage and API payloads
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp reads a value written by FormatTimestamp. Empty or malformed
// input yields the zero time.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NowTimestamp returns the current time formatted by FormatTimestamp
func NowTimestamp() string {
	return FormatTimestamp(time.Now())
}
