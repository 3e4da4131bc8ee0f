package planner

import (
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	m := NewMemoryStore(nil)
	return NewService(m, DefaultPolicy, time.UTC), m
}

// ============================================================
// Add
// ============================================================

func TestServiceAdd(t *testing.T) {
	svc, m := newTestService(t)
	ref := at("2024-01-05", 14, 30)
	slot := Coord{Date: ref.Date, Slot: "15:00 - 16:00"}

	it, err := svc.Add(ref, slot, "  write report ", Todo{Category: "work"})
	if err != nil {
		t.Fatal(err)
	}
	if it.ID == "" || it.Text != "write report" {
		t.Fatalf("unexpected item %+v", it)
	}
	items, _ := m.Items(KindTodo, slot.Date, slot.Slot)
	if len(items) != 1 || items[0].ID != it.ID {
		t.Fatalf("item not stored: %+v", items)
	}
}

func TestServiceAddRejectsElapsedSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ref := at("2024-01-05", 14, 30)

	_, err := svc.Add(ref, Coord{Date: ref.Date, Slot: "13:00 - 14:00"}, "too late", Todo{})
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("err = %v, want ErrNotAllowed", err)
	}
	var ge *GateError
	if !errors.As(err, &ge) || ge.Op != "add" {
		t.Fatalf("expected GateError for add, got %v", err)
	}
	_, err = svc.Add(ref, Coord{Date: MustDate("2024-01-04"), Slot: "20:00 - 21:00"}, "yesterday", Todo{})
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("past day: err = %v", err)
	}
}

func TestServiceAddValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ref := at("2024-01-05", 8, 0)
	slot := Coord{Date: ref.Date, Slot: "09:00 - 10:00"}

	if _, err := svc.Add(ref, slot, "  ", Todo{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty text: err = %v", err)
	}
	if _, err := svc.Add(ref, slot, "x", nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil meta: err = %v", err)
	}
	if _, err := svc.Add(ref, slot, "x", ShareLink{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("link without url: err = %v", err)
	}
	if _, err := svc.Add(ref, slot, "x", Todo{Importance: "urgent"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("bad importance: err = %v", err)
	}
	if _, err := svc.Add(ref, Coord{Date: ref.Date, Slot: "whenever"}, "x", Todo{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("bad slot: err = %v", err)
	}
}

func TestServiceAddStampsReflection(t *testing.T) {
	svc, _ := newTestService(t)
	ref := at("2024-01-05", 21, 15)
	it, err := svc.Add(ref, Coord{Date: ref.Date, Slot: "21:00 - 22:00"}, "good day", Reflection{Category: "mood"})
	if err != nil {
		t.Fatal(err)
	}
	r, _ := MetaOf[Reflection](it)
	want := time.Date(2024, 1, 5, 21, 15, 0, 0, time.UTC)
	if !r.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", r.Timestamp, want)
	}
}

// ============================================================
// Edit, toggle, delete
// ============================================================

func TestServiceToggleAndEdit(t *testing.T) {
	svc, _ := newTestService(t)
	ref := at("2024-01-05", 9, 0)
	slot := Coord{Date: ref.Date, Slot: "16:00 - 17:00"}
	it, _ := svc.Add(ref, slot, "gym", Todo{})

	toggled, err := svc.Toggle(ref, slot, it.ID)
	if err != nil {
		t.Fatal(err)
	}
	if td, _ := MetaOf[Todo](toggled); !td.Completed {
		t.Fatal("todo should be completed")
	}

	edited, err := svc.Edit(ref, slot, it.ID, "gym and sauna", Todo{Completed: true, Importance: ImportanceLow})
	if err != nil {
		t.Fatal(err)
	}
	if edited.ID != it.ID || edited.Text != "gym and sauna" {
		t.Fatalf("unexpected edit %+v", edited)
	}
}

func TestServiceRespectsPastGate(t *testing.T) {
	svc, m := newTestService(t)
	date := MustDate("2024-01-05")
	slot := Coord{Date: date, Slot: "09:00 - 10:00"}
	m.SetItems(KindTodo, date, slot.Slot, []Item{todo("open", "x"), {ID: "done", Text: "y", Meta: Todo{Completed: true}}})
	ref := at("2024-01-05", 14, 30)

	if _, err := svc.Toggle(ref, slot, "open"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("toggle missed todo: err = %v", err)
	}
	if _, err := svc.Edit(ref, slot, "open", "changed", Todo{}); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("edit missed todo: err = %v", err)
	}
	if err := svc.Delete(ref, slot, KindTodo, "done"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("delete past todo: err = %v", err)
	}

	svc.SetPolicy(Policy{RescuePastTodos: true, CompleteLateTodos: true})
	if _, err := svc.Toggle(ref, slot, "open"); err != nil {
		t.Fatalf("late completion should be allowed: %v", err)
	}
	if _, err := svc.Toggle(ref, slot, "open"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("completed past todo should be frozen: err = %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc, m := newTestService(t)
	ref := at("2024-01-05", 9, 0)
	slot := Coord{Date: ref.Date, Slot: "11:00 - 12:00"}
	it, _ := svc.Add(ref, slot, "standup notes", MeetingNote{Attendees: []string{"ana"}})

	if err := svc.Delete(ref, slot, KindMeetingNote, it.ID); err != nil {
		t.Fatal(err)
	}
	if m.Count() != 0 {
		t.Fatal("item not deleted")
	}
	if err := svc.Delete(ref, slot, KindMeetingNote, it.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
}

// ============================================================
// Move
// ============================================================

func TestServiceMoveMissedTodo(t *testing.T) {
	svc, m := newTestService(t)
	date := MustDate("2024-01-05")
	from := Coord{Date: date, Slot: "09:00 - 10:00"}
	to := Coord{Date: date, Slot: "17:00 - 18:00"}
	m.SetItems(KindTodo, date, from.Slot, []Item{todo("a", "x")})
	ref := at("2024-01-05", 14, 30)

	if err := svc.Move(ref, KindTodo, from, to, "a"); err != nil {
		t.Fatal(err)
	}
	items, _ := m.Items(KindTodo, date, to.Slot)
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("todo not moved: %+v", items)
	}
}

func TestServiceMoveRules(t *testing.T) {
	svc, m := newTestService(t)
	date := MustDate("2024-01-05")
	past := Coord{Date: date, Slot: "09:00 - 10:00"}
	elapsed := Coord{Date: date, Slot: "10:00 - 11:00"}
	open := Coord{Date: date, Slot: "17:00 - 18:00"}
	m.SetItems(KindTodo, date, past.Slot, []Item{todo("a", "x"), {ID: "done", Text: "d", Meta: Todo{Completed: true}}})
	m.SetItems(KindTodo, date, open.Slot, []Item{todo("b", "y")})
	ref := at("2024-01-05", 14, 30)

	if err := svc.Move(ref, KindTodo, past, elapsed, "a"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("move into elapsed slot: err = %v", err)
	}
	if err := svc.Move(ref, KindTodo, past, open, "done"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("move completed todo: err = %v", err)
	}
	if err := svc.Move(ref, KindTodo, open, Coord{Date: date, Slot: "18:00 - 19:00"}, "b"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("move upcoming todo: err = %v", err)
	}
	if err := svc.Move(ref, KindTodo, open, open, "b"); err != nil {
		t.Fatalf("move onto itself should be a no-op: %v", err)
	}
	if m.Count() != 3 {
		t.Fatalf("refused moves changed the store: %d items", m.Count())
	}
}

func TestServiceLocate(t *testing.T) {
	svc, _ := newTestService(t)
	ref := at("2024-01-05", 9, 0)
	slot := Coord{Date: ref.Date, Slot: "12:00 - 13:00"}
	it, _ := svc.Add(ref, slot, "go.dev", ShareLink{URL: "https://go.dev"})

	kind, got, err := svc.Locate(slot, it.ID)
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindShareLink || got.ID != it.ID {
		t.Fatalf("Locate = %s %+v", kind, got)
	}
	if _, _, err := svc.Locate(slot, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestServiceDayRecord(t *testing.T) {
	svc, m := newTestService(t)
	date := MustDate("2023-12-31")
	if err := svc.SetNote(date, "  new year's eve "); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetRating(date, RatingExcellent); err != nil {
		t.Fatal(err)
	}
	rec, _ := m.DayRecord(date)
	if rec.Note != "new year's eve" || rec.Rating != RatingExcellent {
		t.Fatalf("unexpected record %+v", rec)
	}
}

// ============================================================
// Calendar
// ============================================================

func TestServiceNavigate(t *testing.T) {
	svc, m := newTestService(t)
	for _, d := range []string{"2024-01-10", "2024-01-03", "2024-01-05"} {
		m.SetItems(KindTodo, MustDate(d), "09:00 - 10:00", []Item{todo("x"+d, "x")})
	}

	nav, err := svc.Navigate(MustDate("2024-01-05"))
	if err != nil {
		t.Fatal(err)
	}
	if nav.Prev.String() != "2024-01-03" || nav.Next.String() != "2024-01-10" {
		t.Fatalf("Navigate = %+v", nav)
	}
	entries, err := svc.Entries(MustDate("2024-01-04"), DateKey{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(entries))
	}
}

type bareStore struct{ ItemStore }

func TestServiceCalendarNeedsListingStore(t *testing.T) {
	svc := NewService(bareStore{NewMemoryStore(nil)}, DefaultPolicy, time.UTC)
	if _, err := svc.EventfulDates(); err == nil {
		t.Fatal("expected error for a store without listing")
	}
}
