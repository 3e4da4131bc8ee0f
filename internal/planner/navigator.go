package planner

// Direction is a navigation step.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// Navigation holds the neighbours of a date in an eventful-date list.
type Navigation struct {
	CanGoPrev bool
	CanGoNext bool
	Prev      DateKey
	Next      DateKey
}

// Navigate locates viewed in the caller's ordered list and steps one
// position either way. A date that is not in the list has no neighbours.
func Navigate(eventful []DateKey, viewed DateKey) Navigation {
	idx := -1
	for i, d := range eventful {
		if d == viewed {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Navigation{}
	}
	var n Navigation
	if idx > 0 {
		n.CanGoPrev = true
		n.Prev = eventful[idx-1]
	}
	if idx < len(eventful)-1 {
		n.CanGoNext = true
		n.Next = eventful[idx+1]
	}
	return n
}

// Step returns the neighbour in dir, if there is one.
func (n Navigation) Step(dir Direction) (DateKey, bool) {
	switch dir {
	case Prev:
		return n.Prev, n.CanGoPrev
	case Next:
		return n.Next, n.CanGoNext
	}
	return DateKey{}, false
}
