// Package streak implements the daily-activity streak counter as a pure
// state machine. Callers load the state from the user row, advance it on a
// qualifying activity and persist whatever comes back.
package streak

import "time"

// State is a user's current streak. Days never decreases except when the
// chain breaks, where it resets to 1.
type State struct {
	Days       int
	LastActive *time.Time
}

// Advance applies one qualifying activity on the given day and returns the
// updated state plus whether anything changed:
//   - first ever activity starts the streak at 1
//   - same-day activity is a no-op, so concurrent logins are safe
//   - the next calendar day extends the streak
//   - a gap of more than one day resets it to 1
//
// Activity dated before the recorded last-active day (clock skew, backdated
// requests) is treated like same-day activity: the state never rewinds.
func Advance(s State, today time.Time) (State, bool) {
	day := truncate(today)

	if s.LastActive == nil {
		return State{Days: 1, LastActive: &day}, true
	}

	daysSince := int(day.Sub(truncate(*s.LastActive)).Hours() / 24)

	switch {
	case daysSince <= 0:
		return s, false
	case daysSince == 1:
		return State{Days: s.Days + 1, LastActive: &day}, true
	default:
		return State{Days: 1, LastActive: &day}, true
	}
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
