package planner

// Interval is one of the six fixed partitions of a day. Start and End are
// minutes since midnight, half open; the last interval ends at 1440.
type Interval struct {
	Key   string
	Label string
	Start int
	End   int
}

var catalog = []Interval{
	{Key: "midnight", Label: "Midnight", Start: 0, End: 5 * 60},
	{Key: "early-morning", Label: "Early morning", Start: 5 * 60, End: 8 * 60},
	{Key: "morning", Label: "Morning", Start: 8 * 60, End: 12 * 60},
	{Key: "noon", Label: "Noon", Start: 12 * 60, End: 14 * 60},
	{Key: "afternoon", Label: "Afternoon", Start: 14 * 60, End: 18 * 60},
	{Key: "evening", Label: "Evening", Start: 18 * 60, End: MinutesPerDay},
}

// slotsByInterval is filled once; the catalog never changes at runtime.
var slotsByInterval = func() map[string][]Slot {
	m := make(map[string][]Slot, len(catalog))
	for _, iv := range catalog {
		m[iv.Key] = generateSlots(iv.Start, iv.End)
	}
	return m
}()

func generateSlots(start, end int) []Slot {
	var slots []Slot
	for m := start; m < end; m += 60 {
		e := m + 60
		if e > end {
			e = end
		}
		slots = append(slots, Slot{Start: m, End: e})
	}
	return slots
}

// Intervals returns the catalog in day order.
func Intervals() []Interval {
	out := make([]Interval, len(catalog))
	copy(out, catalog)
	return out
}

func IntervalByKey(key string) (Interval, bool) {
	for _, iv := range catalog {
		if iv.Key == key {
			return iv, true
		}
	}
	return Interval{}, false
}

// IntervalAt returns the interval whose range contains minute.
func IntervalAt(minute int) (Interval, bool) {
	for _, iv := range catalog {
		if iv.Contains(minute) {
			return iv, true
		}
	}
	return Interval{}, false
}

// IntervalOf returns the interval a slot belongs to.
func IntervalOf(s Slot) (Interval, bool) {
	return IntervalAt(s.Start)
}

func (iv Interval) Contains(minute int) bool {
	return minute >= iv.Start && minute < iv.End
}

// Slots returns the interval's one-hour slots in order.
func (iv Interval) Slots() []Slot {
	src, ok := slotsByInterval[iv.Key]
	if !ok {
		src = generateSlots(iv.Start, iv.End)
	}
	out := make([]Slot, len(src))
	copy(out, src)
	return out
}

// Range renders the interval as "HH:MM - HH:MM".
func (iv Interval) Range() string {
	return FormatClock(iv.Start) + " - " + FormatClock(iv.End)
}

// AllSlots returns the 24 slots of a day.
func AllSlots() []Slot {
	var out []Slot
	for _, iv := range catalog {
		out = append(out, slotsByInterval[iv.Key]...)
	}
	return out
}
