package planner

// bucket indexes values by date and slot label. An empty list is never
// stored, so a cleared bucket and an unwritten one look the same.
type bucket[T any] struct {
	dates map[DateKey]map[string][]T
}

func newBucket[T any]() *bucket[T] {
	return &bucket[T]{dates: make(map[DateKey]map[string][]T)}
}

// get returns a copy of the list at (date, slot), never nil.
func (b *bucket[T]) get(date DateKey, slot string) []T {
	src := b.dates[date][slot]
	out := make([]T, len(src))
	copy(out, src)
	return out
}

func (b *bucket[T]) set(date DateKey, slot string, values []T) {
	if len(values) == 0 {
		b.clear(date, slot)
		return
	}
	slots, ok := b.dates[date]
	if !ok {
		slots = make(map[string][]T)
		b.dates[date] = slots
	}
	cp := make([]T, len(values))
	copy(cp, values)
	slots[slot] = cp
}

func (b *bucket[T]) clear(date DateKey, slot string) {
	slots, ok := b.dates[date]
	if !ok {
		return
	}
	delete(slots, slot)
	if len(slots) == 0 {
		delete(b.dates, date)
	}
}

func (b *bucket[T]) has(date DateKey, slot string) bool {
	return len(b.dates[date][slot]) > 0
}

func (b *bucket[T]) count() int {
	n := 0
	for _, slots := range b.dates {
		for _, values := range slots {
			n += len(values)
		}
	}
	return n
}

// each visits every non-empty list. Order is unspecified.
func (b *bucket[T]) each(fn func(date DateKey, slot string, values []T)) {
	for date, slots := range b.dates {
		for slot, values := range slots {
			fn(date, slot, values)
		}
	}
}
