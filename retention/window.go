package retention

import "time"

// DefaultOffset is the fixed civil offset (UTC+9, no daylight saving) the retention day
// is computed in.
const DefaultOffset = 9 * time.Hour

// Window returns the previous civil day, seen from now in the fixed offset, as an
// absolute interval inclusive at both ends with millisecond granularity.
// No timezone database is consulted.
func Window(now time.Time, offset time.Duration) (from time.Time, to time.Time) {
	shifted := now.UTC().Add(offset)
	midnight := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
	startOfToday := midnight.Add(-offset)
	return startOfToday.Add(-24 * time.Hour), startOfToday.Add(-time.Millisecond)
}
