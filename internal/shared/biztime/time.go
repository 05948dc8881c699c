// Package biztime holds the time conventions of the service: everything is stored
// and transported in UTC, and a user's timezone is applied only when rendering
// times for that user.
package biztime

import (
	"time"
)

// DefaultTimezone is assigned to accounts that never chose one.
const DefaultTimezone = "UTC"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Clock is the source of "now" for components that must be testable without sleeping.
type Clock func() time.Time

// Now calls the clock, falling back to NowUTC when c is nil.
func (c Clock) Now() time.Time {
	if c == nil {
		return NowUTC()
	}
	return c().UTC()
}

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

// UserLocation resolves an IANA timezone name, falling back to UTC for empty or unknown names.
func UserLocation(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatForUser renders t in the user's timezone.
func FormatForUser(t time.Time, tz string, layout string) string {
	return t.In(UserLocation(tz)).Format(layout)
}
