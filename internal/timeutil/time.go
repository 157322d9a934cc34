// Package timeutil provides an overridable clock so repositories and
// services can be tested against fixed timestamps.
package timeutil

import "time"

var nowFunc = time.Now

// Now returns the current time in UTC.
func Now() time.Time {
	return nowFunc().UTC()
}

// SetNowFunc overrides the function used by Now. Passing nil resets it.
func SetNowFunc(fn func() time.Time) {
	if fn == nil {
		nowFunc = time.Now
		return
	}
	nowFunc = fn
}
