package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/dayplan/internal/export"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
)

var testRef = planner.Reference{Date: planner.MustDate("2024-01-05"), Minute: 14*60 + 30}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestSession(t *testing.T) *session {
	t.Helper()
	s := newTestStore(t)
	m, err := s.LoadPlanner()
	if err != nil {
		t.Fatalf("load planner: %v", err)
	}
	return &session{
		store: s,
		svc:   planner.NewService(m, s.Policy(), time.UTC),
		clock: planner.FixedClock(testRef),
	}
}

func newTestApp(t *testing.T) App {
	t.Helper()
	sess := newTestSession(t)
	return NewApp(sess.store, sess.svc, Options{Clock: sess.clock, ExportDir: t.TempDir()})
}

// collect runs cmd and any batch it expands to, returning the messages.
// Never pass it a command that contains a tick.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// loadedDay returns a day model for testRef with its data applied.
func loadedDay(t *testing.T, sess *session) dayModel {
	t.Helper()
	d := newDayModel(sess, testRef)
	d.setSize(120, 40)
	return feed(t, d, d.load())
}

// feed delivers every message cmd produces back into d.
func feed(t *testing.T, d dayModel, cmd tea.Cmd) dayModel {
	t.Helper()
	for _, msg := range collect(cmd) {
		if s, ok := msg.(statusMsg); ok && s.isError {
			t.Fatalf("unexpected error: %s", s.text)
		}
		d, _ = d.update(msg)
	}
	return d
}

func statusOf(cmd tea.Cmd) (statusMsg, bool) {
	for _, msg := range collect(cmd) {
		if s, ok := msg.(statusMsg); ok {
			return s, true
		}
	}
	return statusMsg{}, false
}

func rowIndex(d dayModel, id string) int {
	for i, r := range d.rows {
		if r.item != nil && r.item.Item.ID == id {
			return i
		}
	}
	return -1
}

func slotRow(d dayModel, label string) int {
	for i, r := range d.rows {
		if r.item == nil && r.slot.Slot.Label() == label {
			return i
		}
	}
	return -1
}

// ============================================================
// Day model
// ============================================================

func TestDayLoadBuildsRows(t *testing.T) {
	sess := newTestSession(t)
	it, err := sess.svc.Add(testRef, planner.Coord{Date: testRef.Date, Slot: "16:00 - 17:00"}, "write report", planner.Todo{})
	if err != nil {
		t.Fatal(err)
	}

	d := loadedDay(t, sess)
	if !d.loaded {
		t.Fatal("day should be loaded")
	}
	if rowIndex(d, it.ID) < 0 {
		t.Fatal("item row missing")
	}
	// Empty elapsed slots are hidden on today.
	if slotRow(d, "10:00 - 11:00") >= 0 {
		t.Fatal("empty past slot should not be listed")
	}
	if slotRow(d, "14:00 - 15:00") < 0 {
		t.Fatal("active slot should be listed")
	}
}

func TestDayCursorDefaultsToCurrentSlot(t *testing.T) {
	sess := newTestSession(t)
	d := loadedDay(t, sess)

	sel, ok := d.selected()
	if !ok {
		t.Fatal("nothing selected")
	}
	if sel.item != nil || sel.slot.Slot.Label() != "14:00 - 15:00" {
		t.Fatalf("cursor on %q, want current slot", sel.slot.Slot.Label())
	}
}

func TestDayCursorFollowsItemAcrossReload(t *testing.T) {
	sess := newTestSession(t)
	at := planner.Coord{Date: testRef.Date, Slot: "16:00 - 17:00"}
	it, _ := sess.svc.Add(testRef, at, "second", planner.Todo{})

	d := loadedDay(t, sess)
	d.cursor = rowIndex(d, it.ID)

	// An earlier item shifts every row below it.
	if _, err := sess.svc.Add(testRef, planner.Coord{Date: testRef.Date, Slot: "15:00 - 16:00"}, "first", planner.Todo{}); err != nil {
		t.Fatal(err)
	}
	d = feed(t, d, d.load())

	sel, ok := d.selectedItem()
	if !ok || sel.item.Item.ID != it.ID {
		t.Fatal("cursor should stay on the same item")
	}
}

func TestDayToggleKey(t *testing.T) {
	sess := newTestSession(t)
	at := planner.Coord{Date: testRef.Date, Slot: "15:00 - 16:00"}
	it, _ := sess.svc.Add(testRef, at, "stretch", planner.Todo{})

	d := loadedDay(t, sess)
	d.cursor = rowIndex(d, it.ID)

	d, cmd := d.update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	s, ok := statusOf(cmd)
	if !ok || !strings.Contains(s.text, "Completed") {
		t.Fatalf("status = %+v", s)
	}
	_, got, err := sess.svc.Locate(at, it.ID)
	if err != nil {
		t.Fatal(err)
	}
	if todo, _ := planner.MetaOf[planner.Todo](got); !todo.Completed {
		t.Fatal("todo should be completed")
	}
	_ = d
}

func TestDayDeleteKey(t *testing.T) {
	sess := newTestSession(t)
	at := planner.Coord{Date: testRef.Date, Slot: "15:00 - 16:00"}
	it, _ := sess.svc.Add(testRef, at, "gone soon", planner.MeetingNote{})

	d := loadedDay(t, sess)
	d.cursor = rowIndex(d, it.ID)

	d, cmd := d.update(runeKey('d'))
	d = feed(t, d, cmd)
	if rowIndex(d, it.ID) >= 0 {
		t.Fatal("deleted item still listed")
	}
	if _, _, err := sess.svc.Locate(at, it.ID); err == nil {
		t.Fatal("item should be gone from the planner")
	}
}

func TestDayPastSlotRefusesAdd(t *testing.T) {
	sess := newTestSession(t)
	morning := planner.Reference{Date: testRef.Date, Minute: 8 * 60}
	at := planner.Coord{Date: testRef.Date, Slot: "09:00 - 10:00"}
	it, err := sess.svc.Add(morning, at, "missed", planner.Todo{})
	if err != nil {
		t.Fatal(err)
	}

	d := loadedDay(t, sess)
	d.cursor = slotRow(d, at.Slot)
	if d.cursor < 0 {
		t.Fatal("past slot with content should be listed")
	}

	d, cmd := d.update(runeKey('n'))
	if d.formActive {
		t.Fatal("add form should not open on an elapsed slot")
	}
	if s, _ := statusOf(cmd); !strings.Contains(s.text, "elapsed") {
		t.Fatalf("status = %q", s.text)
	}

	// Editing is refused too, but a missed todo can be moved.
	d.cursor = rowIndex(d, it.ID)
	d, _ = d.update(runeKey('e'))
	if d.formActive {
		t.Fatal("edit form should not open on a past item")
	}
	d, _ = d.update(runeKey('m'))
	if !d.formActive || d.formType != formMove {
		t.Fatal("move form should open for a missed todo")
	}

	d, _ = d.update(tea.KeyMsg{Type: tea.KeyEsc})
	if d.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestDayNavigation(t *testing.T) {
	sess := newTestSession(t)
	d := loadedDay(t, sess)

	d, cmd := d.update(runeKey('h'))
	if d.date != testRef.Date.AddDays(-1) {
		t.Fatalf("date = %s, want previous day", d.date)
	}
	if cmd == nil {
		t.Fatal("moving should load the new date")
	}

	// Data for a date no longer on screen is dropped.
	stale := dayDataMsg{date: testRef.Date}
	d, _ = d.update(stale)
	if d.loaded {
		t.Fatal("stale data should be ignored")
	}

	d = feed(t, d, cmd)
	if !d.loaded {
		t.Fatal("data for the viewed date should apply")
	}

	d, _ = d.update(runeKey('t'))
	if d.date != testRef.Date {
		t.Fatal("t should jump back to today")
	}
}

func TestDayEventfulNavigation(t *testing.T) {
	sess := newTestSession(t)
	today := planner.Coord{Date: testRef.Date, Slot: "20:00 - 21:00"}
	if _, err := sess.svc.Add(testRef, today, "call home", planner.Todo{}); err != nil {
		t.Fatal(err)
	}
	future := planner.Coord{Date: planner.MustDate("2024-01-09"), Slot: "09:00 - 10:00"}
	if _, err := sess.svc.Add(testRef, future, "dentist", planner.Todo{}); err != nil {
		t.Fatal(err)
	}

	d := loadedDay(t, sess)
	d, cmd := d.update(runeKey('['))
	if s, _ := statusOf(cmd); !strings.Contains(s.text, "No earlier") {
		t.Fatalf("status = %q", s.text)
	}

	d, cmd = d.update(runeKey(']'))
	d = feed(t, d, cmd)
	if d.date != future.Date {
		t.Fatalf("date = %s, want %s", d.date, future.Date)
	}

	d, cmd = d.update(runeKey('['))
	d = feed(t, d, cmd)
	if d.date != testRef.Date {
		t.Fatalf("date = %s, want %s", d.date, testRef.Date)
	}
}

func TestDayEventfulNavigationFromEmptyDate(t *testing.T) {
	sess := newTestSession(t)
	for _, date := range []string{"2024-01-01", "2024-01-09"} {
		at := planner.Coord{Date: planner.MustDate(date), Slot: "09:00 - 10:00"}
		if err := sess.svc.Store().SetItems(planner.KindTodo, at.Date, at.Slot, []planner.Item{planner.NewItem("seeded", planner.Todo{})}); err != nil {
			t.Fatal(err)
		}
	}

	// Today has no content, so neither direction is open.
	d := loadedDay(t, sess)
	if d.nav.CanGoPrev || d.nav.CanGoNext {
		t.Fatalf("nav = %+v, want none", d.nav)
	}
	d, cmd := d.update(runeKey(']'))
	if s, _ := statusOf(cmd); !strings.Contains(s.text, "No later") {
		t.Fatalf("status = %q", s.text)
	}
	d, cmd = d.update(runeKey('['))
	if s, _ := statusOf(cmd); !strings.Contains(s.text, "No earlier") {
		t.Fatalf("status = %q", s.text)
	}
	if d.date != testRef.Date {
		t.Fatalf("date = %s, want %s", d.date, testRef.Date)
	}
}

func TestDaySetRefFollowsToday(t *testing.T) {
	sess := newTestSession(t)
	d := newDayModel(sess, testRef)

	next := planner.Reference{Date: testRef.Date.AddDays(1), Minute: 5}
	d.setRef(next)
	if d.date != next.Date {
		t.Fatal("view on today should roll over with the date")
	}

	d.date = planner.MustDate("2023-12-01")
	d.setRef(planner.Reference{Date: next.Date.AddDays(1)})
	if d.date != planner.MustDate("2023-12-01") {
		t.Fatal("view on another date should stay put")
	}
}

func TestDaySubmitAdd(t *testing.T) {
	sess := newTestSession(t)
	d := loadedDay(t, sess)
	d.formType = formAdd
	d.formAt = planner.Coord{Date: testRef.Date, Slot: "18:00 - 19:00"}
	d.values.kind = string(planner.KindShareLink)
	d.values.text = "talk"
	d.values.url = "https://example.com/talk"

	s, _ := statusOf(d.submit())
	if s.isError {
		t.Fatalf("submit: %s", s.text)
	}
	view, err := sess.svc.Day(testRef, testRef.Date)
	if err != nil {
		t.Fatal(err)
	}
	slot, _ := view.Slot("18:00 - 19:00")
	if len(slot.Items) != 1 {
		t.Fatalf("got %d items", len(slot.Items))
	}
	link, ok := planner.MetaOf[planner.ShareLink](slot.Items[0].Item)
	if !ok || link.URL != "https://example.com/talk" {
		t.Fatalf("meta = %+v", slot.Items[0].Item.Meta)
	}
}

func TestDaySubmitNoteAndRating(t *testing.T) {
	sess := newTestSession(t)
	d := loadedDay(t, sess)

	d.formType = formNote
	d.values.note = "quiet day"
	if s, _ := statusOf(d.submit()); s.isError {
		t.Fatal(s.text)
	}
	d.formType = formRating
	d.values.rating = "excellent"
	if s, _ := statusOf(d.submit()); s.isError {
		t.Fatal(s.text)
	}

	d = feed(t, d, d.load())
	if d.dv.Record.Note != "quiet day" || d.dv.Record.Rating != planner.RatingExcellent {
		t.Fatalf("record = %+v", d.dv.Record)
	}
}

func TestDayViewRenders(t *testing.T) {
	sess := newTestSession(t)
	sess.svc.Add(testRef, planner.Coord{Date: testRef.Date, Slot: "15:00 - 16:00"}, "visible text", planner.Todo{Category: "work"})

	d := loadedDay(t, sess)
	out := d.view()
	for _, want := range []string{"visible text", "#work", "Afternoon"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestScrollWindow(t *testing.T) {
	tests := []struct {
		total, cursor, height int
		start, end            int
	}{
		{5, 2, 10, 0, 5},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := scrollWindow(tt.total, tt.cursor, tt.height)
		if start != tt.start || end != tt.end {
			t.Errorf("scrollWindow(%d, %d, %d) = %d, %d, want %d, %d",
				tt.total, tt.cursor, tt.height, start, end, tt.start, tt.end)
		}
	}
}

// ============================================================
// Forms
// ============================================================

func TestFormValuesMeta(t *testing.T) {
	v := &formValues{}
	orig := planner.Item{Text: "ship", Meta: planner.Todo{Completed: true, Category: "work"}}
	v.load(orig)
	if v.kind != "todo" || v.category != "work" {
		t.Fatalf("loaded %+v", v)
	}

	v.importance = "high"
	v.deadline = "2024-02-01"
	m, err := v.meta(orig.Meta)
	if err != nil {
		t.Fatal(err)
	}
	todo := m.(planner.Todo)
	if !todo.Completed {
		t.Fatal("completion is not a form field and must be kept")
	}
	if todo.Importance != planner.ImportanceHigh || todo.Deadline != planner.MustDate("2024-02-01") {
		t.Fatalf("todo = %+v", todo)
	}

	v.deadline = "not a date"
	if _, err := v.meta(orig.Meta); err == nil {
		t.Fatal("expected bad deadline to fail")
	}
}

func TestFormValuesAttendees(t *testing.T) {
	v := &formValues{attendees: " ana, , bo "}
	m, err := v.meta(planner.MeetingNote{})
	if err != nil {
		t.Fatal(err)
	}
	got := m.(planner.MeetingNote).Attendees
	if len(got) != 2 || got[0] != "ana" || got[1] != "bo" {
		t.Fatalf("attendees = %q", got)
	}
}

func TestFormTitles(t *testing.T) {
	for _, f := range []formType{formAdd, formEdit, formMove, formNote, formRating} {
		if f.title() == "" {
			t.Fatalf("form %d has no title", f)
		}
	}
}

// ============================================================
// Clock
// ============================================================

func TestClockTick(t *testing.T) {
	ref := testRef
	c := newClockModel(func() planner.Reference { return ref })

	if c.tick() {
		t.Fatal("unchanged reference should not report a tick")
	}
	ref.Minute++
	if !c.tick() {
		t.Fatal("minute change should report a tick")
	}
	prev := c.ref
	ref = planner.Reference{Date: ref.Date.AddDays(1)}
	c.tick()
	if !c.dateChanged(prev) {
		t.Fatal("date change not detected")
	}
	if c.String() != "00:00" {
		t.Fatalf("clock = %q", c.String())
	}
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatDeadline(t *testing.T) {
	today := planner.MustDate("2024-01-05")
	if got := formatDeadline(today, today); got != "due today" {
		t.Fatalf("got %q", got)
	}
	if got := formatDeadline(today.AddDays(-2), today); !strings.HasPrefix(got, "overdue") {
		t.Fatalf("got %q", got)
	}
	if got := formatDeadline(today.AddDays(3), today); !strings.HasPrefix(got, "due ") {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"héllo", 2, "h…"},
		{"hello", 1, "…"},
		{"hello", 0, "hello"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestKindLabel(t *testing.T) {
	for _, k := range planner.Kinds {
		if kindLabel(k) == "" {
			t.Fatalf("kind %q has no label", k)
		}
	}
}

// ============================================================
// Reports model
// ============================================================

func TestReportsDateRange(t *testing.T) {
	sess := newTestSession(t)
	r := newReportsModel(sess, testRef.Date)

	from, to := r.dateRange()
	if from != planner.MustDate("2023-12-30") || to != testRef.Date {
		t.Fatalf("daily range = %s..%s", from, to)
	}

	r.mode = reportWeekly
	from, to = r.dateRange()
	if from != planner.MustDate("2024-01-01") || to != planner.MustDate("2024-01-07") {
		t.Fatalf("weekly range = %s..%s", from, to)
	}

	r.offset = 1
	from, _ = r.dateRange()
	if from != planner.MustDate("2023-12-25") {
		t.Fatalf("previous week starts %s", from)
	}
}

func TestReportsRefresh(t *testing.T) {
	sess := newTestSession(t)
	at := planner.Coord{Date: testRef.Date, Slot: "15:00 - 16:00"}
	it, _ := sess.svc.Add(testRef, at, "a", planner.Todo{})
	sess.svc.Add(testRef, at, "b", planner.Todo{})
	sess.svc.Toggle(testRef, at, it.ID)

	r := newReportsModel(sess, testRef.Date)
	r.setSize(120, 40)
	msgs := collect(r.refresh())
	if len(msgs) != 1 {
		t.Fatalf("got %d messages", len(msgs))
	}
	r, _ = r.update(msgs[0])
	if len(r.summaries) != 1 {
		t.Fatalf("got %d summaries", len(r.summaries))
	}
	if s := r.summaries[0]; s.TodosDone != 1 || s.TodosOpen != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if !strings.Contains(r.view(), "1/2") {
		t.Fatal("table should show done/total todos")
	}

	// A result for another range is stale once the mode changes.
	r, _ = r.update(runeKey('w'))
	r, _ = r.update(msgs[0])
	if r.mode != reportWeekly {
		t.Fatal("w should switch to weekly")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsSave(t *testing.T) {
	sess := newTestSession(t)
	sm := newSettingsModel(sess)

	*sm.rescuePast = false
	*sm.completeLate = true
	*sm.weekStart = "sunday"
	*sm.defaultKind = string(planner.KindReflection)
	if err := sm.saveSettings(); err != nil {
		t.Fatal(err)
	}

	want := planner.Policy{CompleteLateTodos: true}
	if got := sess.store.Policy(); got != want {
		t.Fatalf("stored policy = %+v", got)
	}
	if got := sess.svc.Policy(); got != want {
		t.Fatalf("service policy = %+v", got)
	}
	if sess.store.WeekStart() != time.Sunday {
		t.Fatal("week start not saved")
	}
	if sess.store.DefaultKind() != planner.KindReflection {
		t.Fatal("default kind not saved")
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{store.KeyRescuePastTodos, "true", "on"},
		{store.KeyCompleteLateTodos, "false", "off"},
		{store.KeyDefaultKind, "share-link", planner.KindShareLink.Title()},
		{store.KeyWeekStart, "monday", "monday"},
		{store.KeyRescuePastTodos, "maybe", "maybe"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.val); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 3 {
		t.Fatalf("expected 3 view names, got %d", len(viewNames))
	}
	for i, name := range viewNames {
		if name == "" {
			t.Fatalf("view name %d is empty", i)
		}
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := newTestApp(t)

	if app.activeView != viewDay {
		t.Fatal("default view should be day")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
	if app.changes != nil {
		t.Fatal("watch was not requested")
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	for _, v := range []viewState{viewDay, viewReports, viewSettings} {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := newTestApp(t)
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppFooterShowsClockAndStatus(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	m, _ := app.Update(statusMsg{text: "test status"})
	app = m.(App)
	footer := app.renderFooter()
	if !strings.Contains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
	if !strings.Contains(footer, "14:30") {
		t.Fatal("footer should show the reference time")
	}
}

func TestAppTickMovesReference(t *testing.T) {
	ref := testRef
	sess := newTestSession(t)
	app := NewApp(sess.store, sess.svc, Options{Clock: func() planner.Reference { return ref }})

	ref.Minute = 15 * 60
	m, _ := app.Update(tickMsg(time.Now()))
	app = m.(App)
	if app.day.ref != ref {
		t.Fatalf("day ref = %v, want %v", app.day.ref, ref)
	}
}

func TestAppDatabaseChangeReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.db")
	st, err := store.New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	m, err := st.LoadPlanner()
	if err != nil {
		t.Fatal(err)
	}
	app := NewApp(st, planner.NewService(m, st.Policy(), time.UTC), Options{Clock: planner.FixedClock(testRef)})

	// Another process, such as the CLI, writes through its own connection.
	other, err := store.New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer other.Close()
	at := planner.Coord{Date: testRef.Date, Slot: "20:00 - 21:00"}
	item := planner.NewItem("written elsewhere", planner.Todo{})
	if err := other.SaveBucket(planner.KindTodo, at.Date, at.Slot, []planner.Item{item}); err != nil {
		t.Fatal(err)
	}

	next, _ := app.Update(dbChangedMsg{path: path})
	app = next.(App)
	if _, _, err := app.sess.svc.Locate(at, item.ID); err != nil {
		t.Fatalf("reloaded planner should see the item: %v", err)
	}
}

func TestAppIgnoresOwnWrites(t *testing.T) {
	app := newTestApp(t)
	at := planner.Coord{Date: testRef.Date, Slot: "20:00 - 21:00"}
	if _, err := app.sess.svc.Add(testRef, at, "typed here", planner.Todo{}); err != nil {
		t.Fatal(err)
	}
	before := app.sess.svc

	next, _ := app.Update(dbChangedMsg{path: "plan.db"})
	app = next.(App)
	if app.sess.svc != before {
		t.Fatal("own write should not rebuild the planner")
	}
}

func TestAppExport(t *testing.T) {
	app := newTestApp(t)
	at := planner.Coord{Date: testRef.Date, Slot: "15:00 - 16:00"}
	app.sess.svc.Add(testRef, at, "exported", planner.Todo{})

	msgs := collect(app.doExport(export.FormatJSON))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages", len(msgs))
	}
	done, ok := msgs[0].(exportDoneMsg)
	if !ok {
		t.Fatalf("unexpected message %#v", msgs[0])
	}
	if done.count != 1 {
		t.Fatalf("exported %d entries", done.count)
	}
	data, err := os.ReadFile(done.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "exported") {
		t.Fatal("export file missing the item")
	}
}

func TestAppExportPicker(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	m, _ := app.Update(runeKey('E'))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("E should open the export picker")
	}
	if !strings.Contains(app.View(), export.FormatICS.Label()) {
		t.Fatal("picker should list every format")
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(App).exportPicking {
		t.Fatal("esc should close the picker")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"brand", func() string { return brandStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"interval", func() string { return intervalStyle.Render("test") }},
		{"currentInterval", func() string { return currentIntervalStyle.Render("test") }},
		{"elapsedInterval", func() string { return elapsedIntervalStyle.Render("test") }},
		{"pastSlot", func() string { return slotStyle(planner.SlotPast).Render("test") }},
		{"activeSlot", func() string { return slotStyle(planner.SlotActive).Render("test") }},
		{"futureSlot", func() string { return slotStyle(planner.SlotFuture).Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"done", func() string { return doneStyle.Render("test") }},
		{"missed", func() string { return missedStyle.Render("test") }},
		{"readOnly", func() string { return readOnlyStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"now", func() string { return nowStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"meetingKind", func() string { return kindStyle(planner.KindMeetingNote).Render("test") }},
		{"rating", func() string { return ratingStyle(planner.RatingExcellent).Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}

func TestSlotStyleFollowsState(t *testing.T) {
	if slotStyle(planner.SlotPast).GetForeground() != colorElapsed {
		t.Fatal("past slots should use the elapsed color")
	}
	if slotStyle(planner.SlotActive).GetForeground() != colorNow {
		t.Fatal("the active slot should use the now color")
	}
	if slotStyle(planner.SlotFuture).GetForeground() != colorAhead {
		t.Fatal("future slots should use the ahead color")
	}
	if ratingStyle(planner.RatingNone).GetForeground() != mutedStyle.GetForeground() {
		t.Fatal("no rating should render muted")
	}
}

func TestElapsedInterval(t *testing.T) {
	sess := newTestSession(t)
	view, err := sess.svc.Day(testRef, testRef.Date)
	if err != nil {
		t.Fatal(err)
	}
	for _, iv := range view.Intervals {
		want := iv.Interval.End <= testRef.Minute
		if got := elapsed(iv); got != want {
			t.Fatalf("elapsed(%s) = %v, want %v", iv.Interval.Key, got, want)
		}
	}
}
