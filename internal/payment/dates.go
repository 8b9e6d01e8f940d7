package payment

import "time"

// PlatformMinDate is the earliest date the legacy store can hold. Older values
// are placeholders and are treated as absent everywhere.
var PlatformMinDate = time.Date(1753, time.January, 1, 0, 0, 0, 0, time.UTC)

// NormalizeDate drops nil and placeholder dates.
func NormalizeDate(t *time.Time) *time.Time {
	if t == nil || t.Before(PlatformMinDate) {
		return nil
	}
	v := *t
	return &v
}

// ResolveDate returns the first valid date among settled, due and planned, in
// that order. When none is valid it returns the zero time and false; the zero
// time sorts before any valid date.
func ResolveDate(settled, due, planned *time.Time) (time.Time, bool) {
	for _, candidate := range [...]*time.Time{settled, due, planned} {
		if d := NormalizeDate(candidate); d != nil {
			return *d, true
		}
	}
	return time.Time{}, false
}
