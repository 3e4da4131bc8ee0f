package planner

import (
	"fmt"
	"strings"
	"time"
)

// Service applies the edit gate to every mutation before it reaches the
// store. The terminal UI, the CLI and the MCP tools all go through it.
type Service struct {
	store  ItemStore
	policy Policy
	loc    *time.Location
}

func NewService(store ItemStore, policy Policy, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, policy: policy, loc: loc}
}

func (s *Service) Store() ItemStore         { return s.store }
func (s *Service) Policy() Policy           { return s.policy }
func (s *Service) SetPolicy(p Policy)       { s.policy = p }
func (s *Service) Location() *time.Location { return s.loc }

// Day builds the view of date as seen from ref.
func (s *Service) Day(ref Reference, date DateKey) (DayView, error) {
	return s.policy.BuildDay(ref, date, s.store)
}

// Add appends a new item to the slot at. The slot must accept additions.
func (s *Service) Add(ref Reference, at Coord, text string, meta Meta) (Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Item{}, invalid("text", "", "empty")
	}
	if meta == nil {
		return Item{}, invalid("kind", "", "missing")
	}
	meta = s.fillMeta(ref, meta)
	if err := validateMeta(meta); err != nil {
		return Item{}, err
	}
	kind := meta.Kind()

	has, err := s.store.HasContent(at.Date, at.Slot)
	if err != nil {
		return Item{}, err
	}
	g, err := s.policy.EvaluateSlot(ref, at.Date, at.Slot, has)
	if err != nil {
		return Item{}, err
	}
	if !g.AllowAdd {
		return Item{}, &GateError{Op: "add", At: at, Reason: "slot has elapsed"}
	}

	items, err := s.store.Items(kind, at.Date, at.Slot)
	if err != nil {
		return Item{}, err
	}
	it := NewItem(text, meta)
	if err := s.store.SetItems(kind, at.Date, at.Slot, append(items, it)); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Edit replaces an item's text and payload. The payload kind cannot change.
func (s *Service) Edit(ref Reference, at Coord, id, text string, meta Meta) (Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Item{}, invalid("text", "", "empty")
	}
	if meta == nil {
		return Item{}, invalid("kind", "", "missing")
	}
	if err := validateMeta(meta); err != nil {
		return Item{}, err
	}
	kind := meta.Kind()
	items, idx, acts, err := s.lookup(ref, kind, at, id)
	if err != nil {
		return Item{}, err
	}
	if !acts.Edit {
		return Item{}, &GateError{Op: "edit", At: at, Reason: "item is read-only"}
	}
	items[idx].Text = text
	items[idx].Meta = meta
	if err := s.store.SetItems(kind, at.Date, at.Slot, items); err != nil {
		return Item{}, err
	}
	return items[idx], nil
}

// Toggle flips a todo between open and completed.
func (s *Service) Toggle(ref Reference, at Coord, id string) (Item, error) {
	items, idx, acts, err := s.lookup(ref, KindTodo, at, id)
	if err != nil {
		return Item{}, err
	}
	if !acts.Toggle {
		return Item{}, &GateError{Op: "toggle", At: at, Reason: "todo is read-only"}
	}
	todo := items[idx].Meta.(Todo)
	todo.Completed = !todo.Completed
	items[idx].Meta = todo
	if err := s.store.SetItems(KindTodo, at.Date, at.Slot, items); err != nil {
		return Item{}, err
	}
	return items[idx], nil
}

// Delete removes an item from its slot.
func (s *Service) Delete(ref Reference, at Coord, kind Kind, id string) error {
	items, idx, acts, err := s.lookup(ref, kind, at, id)
	if err != nil {
		return err
	}
	if !acts.Delete {
		return &GateError{Op: "delete", At: at, Reason: "item is read-only"}
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.store.SetItems(kind, at.Date, at.Slot, items)
}

// Move re-keys a missed item to another slot. The item must allow moving
// and the destination must accept additions. Moving onto the item's own
// slot does nothing.
func (s *Service) Move(ref Reference, kind Kind, from, to Coord, id string) error {
	_, _, acts, err := s.lookup(ref, kind, from, id)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	if !acts.Move {
		return &GateError{Op: "move", At: from, Reason: "only missed todos can be moved"}
	}
	has, err := s.store.HasContent(to.Date, to.Slot)
	if err != nil {
		return err
	}
	g, err := s.policy.EvaluateSlot(ref, to.Date, to.Slot, has)
	if err != nil {
		return err
	}
	if !g.AllowAdd {
		return &GateError{Op: "move", At: to, Reason: "destination has elapsed"}
	}
	return s.store.MoveItem(kind, from, to, id)
}

// Locate finds an item by id in any kind's bucket at at.
func (s *Service) Locate(at Coord, id string) (Kind, Item, error) {
	for _, kind := range Kinds {
		items, err := s.store.Items(kind, at.Date, at.Slot)
		if err != nil {
			return "", Item{}, err
		}
		if i := indexOf(items, id); i >= 0 {
			return kind, items[i], nil
		}
	}
	return "", Item{}, fmt.Errorf("item %s at %s: %w", id, at, ErrNotFound)
}

// Calendar is implemented by stores that can enumerate their content.
// MemoryStore is one.
type Calendar interface {
	EventfulDates() ([]DateKey, error)
	Entries(from, to DateKey) []Entry
}

func (s *Service) calendar() (Calendar, error) {
	c, ok := s.store.(Calendar)
	if !ok {
		return nil, fmt.Errorf("store %T cannot list dates", s.store)
	}
	return c, nil
}

// EventfulDates lists, ascending, every date with items or a day record.
func (s *Service) EventfulDates() ([]DateKey, error) {
	c, err := s.calendar()
	if err != nil {
		return nil, err
	}
	return c.EventfulDates()
}

// Entries lists items dated within [from, to]. Zero bounds are open.
func (s *Service) Entries(from, to DateKey) ([]Entry, error) {
	c, err := s.calendar()
	if err != nil {
		return nil, err
	}
	return c.Entries(from, to), nil
}

// Navigate returns the eventful neighbours of date.
func (s *Service) Navigate(date DateKey) (Navigation, error) {
	dates, err := s.EventfulDates()
	if err != nil {
		return Navigation{}, err
	}
	return Navigate(dates, date), nil
}

func (s *Service) SetNote(date DateKey, note string) error {
	return s.store.SetDailyNote(date, strings.TrimSpace(note))
}

func (s *Service) SetRating(date DateKey, r Rating) error {
	return s.store.SetRating(date, r)
}

func (s *Service) lookup(ref Reference, kind Kind, at Coord, id string) ([]Item, int, Actions, error) {
	items, err := s.store.Items(kind, at.Date, at.Slot)
	if err != nil {
		return nil, 0, Actions{}, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, 0, Actions{}, fmt.Errorf("%s %s at %s: %w", kind, id, at, ErrNotFound)
	}
	g, err := s.policy.EvaluateSlot(ref, at.Date, at.Slot, true)
	if err != nil {
		return nil, 0, Actions{}, err
	}
	return items, idx, s.policy.ItemActions(g, items[idx]), nil
}

// fillMeta stamps reflections that carry no timestamp with ref.
func (s *Service) fillMeta(ref Reference, meta Meta) Meta {
	if r, ok := meta.(Reflection); ok && r.Timestamp.IsZero() {
		r.Timestamp = ref.Date.At(ref.Minute, s.loc)
		return r
	}
	return meta
}

func validateMeta(meta Meta) error {
	switch m := meta.(type) {
	case Todo:
		if _, err := ParseImportance(string(m.Importance)); err != nil {
			return err
		}
	case ShareLink:
		if strings.TrimSpace(m.URL) == "" {
			return invalid("url", "", "empty")
		}
	}
	return nil
}
