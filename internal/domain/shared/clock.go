package shared

import "time"

// Clock supplies the current time to date-sensitive domain logic
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today truncates t to midnight in its own location
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays returns the date n days after the date of t
func AddDays(t time.Time, n int) time.Time {
	return Today(t).AddDate(0, 0, n)
}
