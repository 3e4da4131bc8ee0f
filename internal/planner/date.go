package planner

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey identifies a calendar day. Its text form is YYYY-MM-DD.
type DateKey struct {
	year  int
	month time.Month
	day   int
}

// ParseDateKey parses a canonical YYYY-MM-DD date. Non-canonical forms and
// dates that do not exist on the calendar are rejected.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return DateKey{}, invalid("date", s, "want YYYY-MM-DD")
	}
	// time.Parse accepts some non-canonical spellings; only the canonical
	// form may be used as a key.
	if t.Format(dateLayout) != s {
		return DateKey{}, invalid("date", s, "not canonical")
	}
	return DateOf(t), nil
}

// MustDate is ParseDateKey for literals known to be valid.
func MustDate(s string) DateKey {
	d, err := ParseDateKey(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{year: y, month: m, day: d}
}

func (d DateKey) IsZero() bool {
	return d == DateKey{}
}

func (d DateKey) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// Time returns midnight of the day in loc.
func (d DateKey) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// At returns the wall-clock instant minute minutes after midnight in loc.
// A minute of 1440 is midnight of the following day.
func (d DateKey) At(minute int, loc *time.Location) time.Time {
	return d.Time(loc).Add(time.Duration(minute) * time.Minute)
}

func (d DateKey) AddDays(n int) DateKey {
	return DateOf(time.Date(d.year, d.month, d.day+n, 0, 0, 0, 0, time.UTC))
}

// Compare returns -1, 0 or +1.
func (d DateKey) Compare(o DateKey) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

func (d DateKey) Before(o DateKey) bool { return d.Compare(o) < 0 }
func (d DateKey) After(o DateKey) bool  { return d.Compare(o) > 0 }

// Weekday reports the day of the week.
func (d DateKey) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// WeekOf returns the first and last date of the week holding d, where
// weeks begin on start.
func WeekOf(d DateKey, start time.Weekday) (DateKey, DateKey) {
	back := (int(d.Weekday()) - int(start) + 7) % 7
	first := d.AddDays(-back)
	return first, first.AddDays(6)
}

func (d DateKey) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DateKey) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = DateKey{}
		return nil
	}
	k, err := ParseDateKey(string(b))
	if err != nil {
		return err
	}
	*d = k
	return nil
}

func checkDate(d DateKey) error {
	if d.IsZero() {
		return invalid("date", "", "missing")
	}
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
