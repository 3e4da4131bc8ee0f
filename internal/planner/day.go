package planner

import "fmt"

// DayView is one full render pass of a date.
type DayView struct {
	Ref       Reference
	Date      DateKey
	State     DayState
	Record    DayRecord
	Intervals []IntervalView
}

// BuildDay evaluates every interval and slot of viewed against ref and
// attaches the stored items with their actions.
func (p Policy) BuildDay(ref Reference, viewed DateKey, store ItemStore) (DayView, error) {
	if err := checkDate(viewed); err != nil {
		return DayView{}, err
	}
	rec, err := store.DayRecord(viewed)
	if err != nil {
		return DayView{}, err
	}

	items := make(map[string][]Item)
	for _, s := range AllSlots() {
		label := s.Label()
		for _, kind := range Kinds {
			list, err := store.Items(kind, viewed, label)
			if err != nil {
				return DayView{}, fmt.Errorf("load %s %s: %w", kind, label, err)
			}
			items[label] = append(items[label], list...)
		}
	}

	view := DayView{
		Ref:    ref,
		Date:   viewed,
		State:  ClassifyDay(ref, viewed),
		Record: rec,
	}
	for _, iv := range Intervals() {
		ivView := p.EvaluateInterval(ref, viewed, iv, func(s Slot) bool {
			return len(items[s.Label()]) > 0
		})
		for i := range ivView.Slots {
			sv := &ivView.Slots[i]
			for _, it := range items[sv.Slot.Label()] {
				sv.Items = append(sv.Items, ItemView{Item: it, Actions: p.ItemActions(sv.Gate, it)})
			}
		}
		view.Intervals = append(view.Intervals, ivView)
	}
	return view, nil
}

// Visible returns the intervals that render.
func (v DayView) Visible() []IntervalView {
	var out []IntervalView
	for _, iv := range v.Intervals {
		if iv.Render {
			out = append(out, iv)
		}
	}
	return out
}

// Slot finds the evaluated slot with the given label.
func (v DayView) Slot(label string) (SlotView, bool) {
	for _, iv := range v.Intervals {
		for _, s := range iv.Slots {
			if s.Slot.Label() == label {
				return s, true
			}
		}
	}
	return SlotView{}, false
}

// Count returns the number of items on the day.
func (v DayView) Count() int {
	n := 0
	for _, iv := range v.Intervals {
		for _, s := range iv.Slots {
			n += len(s.Items)
		}
	}
	return n
}
