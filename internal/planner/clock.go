package planner

import "time"

// Reference is one captured "now": the current date and minute of day.
// A view computes everything from a single Reference so that slots and
// intervals agree even while the wall clock moves on.
type Reference struct {
	Date   DateKey
	Minute int
}

// Capture snapshots t. Convert t to the planner's location first.
func Capture(t time.Time) Reference {
	return Reference{Date: DateOf(t), Minute: t.Hour()*60 + t.Minute()}
}

// Clock yields a fresh Reference. Callers capture once per refresh.
type Clock func() Reference

// SystemClock captures time.Now in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() Reference { return Capture(time.Now().In(loc)) }
}

// FixedClock always returns ref.
func FixedClock(ref Reference) Clock {
	return func() Reference { return ref }
}

func (r Reference) String() string {
	return r.Date.String() + " " + FormatClock(r.Minute)
}

type DayState int

const (
	DayPast DayState = iota
	DayToday
	DayFuture
)

func (s DayState) String() string {
	switch s {
	case DayPast:
		return "past"
	case DayToday:
		return "today"
	case DayFuture:
		return "future"
	}
	return "unknown"
}

type SlotState int

const (
	SlotPast SlotState = iota
	SlotActive
	SlotFuture
)

func (s SlotState) String() string {
	switch s {
	case SlotPast:
		return "past"
	case SlotActive:
		return "active"
	case SlotFuture:
		return "future"
	}
	return "unknown"
}

// ClassifyDay compares calendar dates only.
func ClassifyDay(ref Reference, viewed DateKey) DayState {
	switch c := viewed.Compare(ref.Date); {
	case c < 0:
		return DayPast
	case c > 0:
		return DayFuture
	}
	return DayToday
}

// ClassifySlot places a slot label relative to ref. On today's date a slot
// is SlotPast once its end has been reached, SlotActive while ref falls
// inside it and SlotFuture before it starts.
func ClassifySlot(ref Reference, viewed DateKey, label string) (SlotState, error) {
	if err := checkDate(viewed); err != nil {
		return SlotPast, err
	}
	s, err := ParseSlot(label)
	if err != nil {
		return SlotPast, err
	}
	return classify(ref, viewed, s), nil
}

func classify(ref Reference, viewed DateKey, s Slot) SlotState {
	switch ClassifyDay(ref, viewed) {
	case DayPast:
		return SlotPast
	case DayFuture:
		return SlotFuture
	}
	if s.End <= ref.Minute {
		return SlotPast
	}
	if ref.Minute < s.Start {
		return SlotFuture
	}
	return SlotActive
}
