// Package deadline derives point-in-time deadline state for tasks: time
// remaining until the end of the due date, and overdue/today/tomorrow checks.
// Nothing here is cached; every call evaluates against the supplied now.
package deadline

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Remaining is the time left until the end of a due date.
type Remaining struct {
	Expired  bool
	Days     int
	Hours    int
	Minutes  int
	Duration time.Duration
}

// Evaluate returns the time left from now until the end of due. At the
// following midnight the result flips to Expired.
func Evaluate(now time.Time, due Date) Remaining {
	end := due.EndOfDay()
	if !now.Before(end) {
		return Remaining{Expired: true}
	}
	left := end.Sub(now)
	return Remaining{
		Days:     int(left / day),
		Hours:    int(left % day / time.Hour),
		Minutes:  int(left % time.Hour / time.Minute),
		Duration: left,
	}
}

func (r Remaining) String() string {
	if r.Expired {
		return "expired"
	}
	return fmt.Sprintf("%dd %dh %dm", r.Days, r.Hours, r.Minutes)
}

// IsOverdue reports whether an incomplete task due on due is overdue at now:
// its date is earlier than yesterday in due's location.
func IsOverdue(now time.Time, due Date, completed bool) bool {
	if completed || due.IsZero() {
		return false
	}
	yesterday := DateOf(now, due.start.Location()).AddDays(-1)
	return due.Before(yesterday)
}

func IsToday(now time.Time, due Date) bool {
	return !due.IsZero() && DateOf(now, due.start.Location()).Equal(due)
}

func IsTomorrow(now time.Time, due Date) bool {
	return !due.IsZero() && DateOf(now, due.start.Location()).AddDays(1).Equal(due)
}
