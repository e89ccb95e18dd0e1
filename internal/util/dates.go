package util

import "time"

// DateRange normalizes an optional day range for date-column filters.
// The end day is inclusive, so the returned upper bound is the start of the
// following day. Reversed bounds are swapped.
func DateRange(start, end *time.Time) (from time.Time, hasFrom bool, toExclusive time.Time, hasTo bool) {
	var s, e time.Time
	if start != nil && !start.IsZero() {
		s = truncateDay(*start)
		hasFrom = true
	}
	if end != nil && !end.IsZero() {
		e = truncateDay(*end)
		hasTo = true
	}

	if hasFrom && hasTo && e.Before(s) {
		s, e = e, s
	}

	if hasFrom {
		from = s
	}
	if hasTo {
		toExclusive = e.AddDate(0, 0, 1)
	}
	return from, hasFrom, toExclusive, hasTo
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
