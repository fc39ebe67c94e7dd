// Package clock resolves timestamps to local days in a single pinned
// reference timezone. Completion day boundaries are computed here and only
// here, so "today" is the same for every user regardless of client locale
// or server timezone configuration.
package clock

import (
	"time"
	// Embed the IANA timezone database so day resolution works identically
	// on hosts without /usr/share/zoneinfo (scratch containers, Windows).
	_ "time/tzdata"
)

// ReferenceTimezone is the pinned timezone for all day-boundary decisions.
// Changing this shifts every user's completion day; it is a product
// constant, not a deployment setting.
const ReferenceTimezone = "Europe/Amsterdam"

// DayFormat is the canonical local-day layout.
const DayFormat = "2006-01-02"

var referenceLocation = mustLoadLocation(ReferenceTimezone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Unreachable with time/tzdata embedded; fail loud if the
		// constant is ever changed to an unknown zone name.
		panic("clock: cannot load reference timezone " + name + ": " + err.Error())
	}
	return loc
}

// Clock supplies "now" to the services. Inject SystemClock in production
// and FixedClock in tests; never read time.Now directly in service code.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock returns a fixed instant, settable by tests.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

// Advance moves the fixed clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

// LocalDay returns the YYYY-MM-DD day string for t in the reference
// timezone. Deterministic and side-effect free.
func LocalDay(t time.Time) string {
	return t.In(referenceLocation).Format(DayFormat)
}

// SameLocalDay returns true if a and b fall on the same reference-timezone day.
func SameLocalDay(a, b time.Time) bool {
	return LocalDay(a) == LocalDay(b)
}

// DayBounds returns the half-open interval [start, end) covering the
// reference-timezone day that contains t. On DST transition days the
// interval is 23 or 25 hours; callers must never assume 24.
func DayBounds(t time.Time) (start, end time.Time) {
	local := t.In(referenceLocation)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, referenceLocation)
	end = start.AddDate(0, 0, 1)
	return start, end
}

// DayBoundsFor returns the half-open interval for a YYYY-MM-DD day string.
func DayBoundsFor(day string) (start, end time.Time, err error) {
	parsed, err := time.ParseInLocation(DayFormat, day, referenceLocation)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end = DayBounds(parsed)
	return start, end, nil
}

// PreviousDay returns the day string immediately before day. Invalid input
// yields an empty string; callers treat that as "no previous day".
func PreviousDay(day string) string {
	parsed, err := time.ParseInLocation(DayFormat, day, referenceLocation)
	if err != nil {
		return ""
	}
	return parsed.AddDate(0, 0, -1).Format(DayFormat)
}
