package ingestion

import "time"

// IsTradingDay reports whether the exchange trades on t's calendar day.
// Only weekends are excluded; holidays are caught later by the source's
// reported date.
func IsTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// truncateToDate drops the clock part, keeping t's location.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
