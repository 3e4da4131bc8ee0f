package planner

import (
	"fmt"
	"strconv"
)

// MinutesPerDay is the length of a day in minutes. Slot and interval ends
// that fall on the next midnight are stored as this value, never as 0.
const MinutesPerDay = 1440

// Slot is a one-hour range of a day in minutes since midnight. Its label,
// "HH:MM - HH:MM", is the key items are stored under.
type Slot struct {
	Start int
	End   int
}

// Label renders the slot as "HH:MM - HH:MM". An end of 1440 prints as 00:00.
func (s Slot) Label() string {
	return FormatClock(s.Start) + " - " + FormatClock(s.End)
}

func (s Slot) String() string { return s.Label() }

// Contains reports whether minute falls inside [Start, End).
func (s Slot) Contains(minute int) bool {
	return minute >= s.Start && minute < s.End
}

// FormatClock renders a minute-of-day as HH:MM, wrapping 1440 to 00:00.
func FormatClock(minute int) string {
	minute %= MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseClock parses a strict HH:MM wall-clock time.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' || !digits(s[:2]) || !digits(s[3:]) {
		return 0, invalid("time", s, "want HH:MM")
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 || m > 59 {
		return 0, invalid("time", s, "out of range")
	}
	return h*60 + m, nil
}

// ParseSlot parses a "HH:MM - HH:MM" label. An end of 00:00 means the end
// of the day (1440) unless the start is 00:00 as well.
func ParseSlot(label string) (Slot, error) {
	const sep = " - "
	if len(label) != 5+len(sep)+5 || label[5:5+len(sep)] != sep {
		return Slot{}, invalid("slot", label, "want HH:MM - HH:MM")
	}
	start, err := ParseClock(label[:5])
	if err != nil {
		return Slot{}, invalid("slot", label, "bad start")
	}
	end, err := ParseClock(label[5+len(sep):])
	if err != nil {
		return Slot{}, invalid("slot", label, "bad end")
	}
	if end == 0 && start != 0 {
		end = MinutesPerDay
	}
	if end < start {
		return Slot{}, invalid("slot", label, "ends before it starts")
	}
	return Slot{Start: start, End: end}, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
