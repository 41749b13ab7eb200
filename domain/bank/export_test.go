package bank

import "time"

// SetNow replaces the clock used by time-relative rules.
func SetNow(f func() time.Time) (restore func()) {
	old := now
	now = f
	return func() { now = old }
}
