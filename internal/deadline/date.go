package deadline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical text form of a Date.
const Layout = "2006-01-02"

var (
	ErrMissingDate   = errors.New("due date is missing")
	ErrMalformedDate = errors.New("due date is malformed")
)

// Date is a calendar date interpreted in a specific location. The zero
// value is not a valid date.
type Date struct {
	start time.Time
}

// NewDate returns the date y-m-d in loc.
func NewDate(year int, month time.Month, day int, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return Date{start: time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

// DateOf returns the calendar date of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return NewDate(y, m, d, loc)
}

// ParseDate accepts a canonical YYYY-MM-DD date or an RFC3339 instant. An
// instant is converted to loc before its date is taken.
func ParseDate(raw string, loc *time.Location) (Date, error) {
	if loc == nil {
		loc = time.Local
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, ErrMissingDate
	}
	if t, err := time.ParseInLocation(Layout, raw, loc); err == nil {
		return Date{start: t}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return DateOf(t, loc), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
}

// Normalize parses raw and returns it in canonical form.
func Normalize(raw string, loc *time.Location) (string, error) {
	d, err := ParseDate(raw, loc)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func (d Date) IsZero() bool { return d.start.IsZero() }

// Start is midnight at the beginning of the date.
func (d Date) Start() time.Time { return d.start }

// EndOfDay is the first instant after the date, i.e. the following
// midnight. It is exclusive.
func (d Date) EndOfDay() time.Time {
	y, m, day := d.start.Date()
	return time.Date(y, m, day+1, 0, 0, 0, 0, d.start.Location())
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	y, m, day := d.start.Date()
	return Date{start: time.Date(y, m, day+n, 0, 0, 0, 0, d.start.Location())}
}

func (d Date) Before(other Date) bool { return d.start.Before(other.start) }

func (d Date) Equal(other Date) bool { return d.start.Equal(other.start) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int { return d.start.Compare(other.start) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.start.Format(Layout)
}
