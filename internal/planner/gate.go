package planner

// Gate is the visibility and edit verdict for one slot.
type Gate struct {
	Render    bool
	AllowAdd  bool
	AllowEdit bool
	AllowMove bool
}

// Actions are the affordances on a single item.
type Actions struct {
	Edit   bool
	Toggle bool
	Delete bool
	Move   bool
}

func (a Actions) Any() bool {
	return a.Edit || a.Toggle || a.Delete || a.Move
}

// Policy decides what may still happen to items whose slot has elapsed.
type Policy struct {
	// RescuePastTodos lets incomplete todos in elapsed slots be moved.
	RescuePastTodos bool
	// CompleteLateTodos lets incomplete todos in elapsed slots be ticked off.
	CompleteLateTodos bool
}

// DefaultPolicy keeps history read-only except for moving missed todos.
var DefaultPolicy = Policy{RescuePastTodos: true}

// EvaluateSlot applies DefaultPolicy.
func EvaluateSlot(ref Reference, viewed DateKey, label string, hasContent bool) (Gate, error) {
	return DefaultPolicy.EvaluateSlot(ref, viewed, label, hasContent)
}

// EvaluateSlot decides whether a slot is drawn and what it accepts.
// Elapsed slots (every slot of a past day, and today's slots whose end is
// at or before ref) are hidden when empty and read-only otherwise.
func (p Policy) EvaluateSlot(ref Reference, viewed DateKey, label string, hasContent bool) (Gate, error) {
	state, err := ClassifySlot(ref, viewed, label)
	if err != nil {
		return Gate{}, err
	}
	return p.gate(state, hasContent), nil
}

func (p Policy) gate(state SlotState, hasContent bool) Gate {
	if state != SlotPast {
		return Gate{Render: true, AllowAdd: true, AllowEdit: true}
	}
	if !hasContent {
		return Gate{}
	}
	return Gate{Render: true, AllowMove: p.RescuePastTodos}
}

// ItemActions narrows a slot gate down to one item.
func (p Policy) ItemActions(g Gate, it Item) Actions {
	if !g.Render {
		return Actions{}
	}
	if g.AllowEdit {
		return Actions{Edit: true, Toggle: it.Kind() == KindTodo, Delete: true}
	}
	if !it.IsOpenTodo() {
		return Actions{}
	}
	return Actions{Move: g.AllowMove, Toggle: p.CompleteLateTodos}
}

// SlotView is one evaluated slot with its items.
type SlotView struct {
	Slot  Slot
	State SlotState
	Gate  Gate
	Items []ItemView
}

// ItemView is an item with the actions its slot permits.
type ItemView struct {
	Item    Item
	Actions Actions
}

// IntervalView is an evaluated interval. It renders when any slot does.
type IntervalView struct {
	Interval Interval
	Current  bool
	Render   bool
	Slots    []SlotView
}

// CurrentInterval is the interval holding ref's minute, on ref's date only.
func CurrentInterval(ref Reference, viewed DateKey) (Interval, bool) {
	if ClassifyDay(ref, viewed) != DayToday {
		return Interval{}, false
	}
	return IntervalAt(ref.Minute)
}

// EvaluateInterval applies DefaultPolicy.
func EvaluateInterval(ref Reference, viewed DateKey, iv Interval, hasContent func(Slot) bool) IntervalView {
	return DefaultPolicy.EvaluateInterval(ref, viewed, iv, hasContent)
}

// EvaluateInterval gates every slot of iv. Items are not attached.
func (p Policy) EvaluateInterval(ref Reference, viewed DateKey, iv Interval, hasContent func(Slot) bool) IntervalView {
	cur, ok := CurrentInterval(ref, viewed)
	view := IntervalView{Interval: iv, Current: ok && cur.Key == iv.Key}
	for _, s := range iv.Slots() {
		state := classify(ref, viewed, s)
		g := p.gate(state, hasContent != nil && hasContent(s))
		view.Slots = append(view.Slots, SlotView{Slot: s, State: state, Gate: g})
		if g.Render {
			view.Render = true
		}
	}
	return view
}
