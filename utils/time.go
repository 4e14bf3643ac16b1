package utils

import "time"

// StartOfDay truncates t to midnight in its own location. Daily quotas count
// items created at or after this instant.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
