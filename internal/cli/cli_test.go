package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/sadopc/dayplan/internal/planner"
)

var testRef = planner.Reference{Date: planner.MustDate("2024-01-05"), Minute: 14*60 + 30}

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// runAt executes the root command against a database in dir with the
// clock pinned to ref.
func runAt(t *testing.T, dir string, ref planner.Reference, args ...string) (string, error) {
	t.Helper()
	o := newOptions()
	o.clock = planner.FixedClock(ref)
	cmd := newRoot(o)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "plan.db"),
		"--tz", "UTC",
		"--log-level", "error",
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runAt(t, dir, testRef, args...)
	if err != nil {
		t.Fatalf("dayplan %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// addedID pulls the short id out of "Added todo <id> at ...".
func addedID(t *testing.T, out string) string {
	t.Helper()
	f := strings.Fields(out)
	if len(f) < 3 {
		t.Fatalf("unexpected add output %q", out)
	}
	return f[2]
}

// ============================================================
// Items
// ============================================================

func TestAddAndShow(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "add", "15", "write", "the", "report", "--importance", "high", "--category", "work")
	if !strings.Contains(out, "Added todo") || !strings.Contains(out, "15:00 - 16:00") {
		t.Fatalf("add output %q", out)
	}

	out = run(t, dir, "show")
	for _, want := range []string{"2024-01-05 (today, 14:30)", "Afternoon", "<- now", "[ ] write the report", "#work", "edit,toggle,delete"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "10:00 - 11:00") {
		t.Fatal("empty elapsed slots should be hidden")
	}
}

func TestAddKinds(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "add", "now", "go docs", "--kind", "share-link", "--url", "https://go.dev/doc")
	if !strings.Contains(out, "Added link") || !strings.Contains(out, "14:00 - 15:00") {
		t.Fatalf("add output %q", out)
	}
	out = run(t, dir, "add", "18:30", "retro", "--kind", "meeting-note", "--attendees", "ana, li")
	if !strings.Contains(out, "18:00 - 19:00") {
		t.Fatalf("add output %q", out)
	}

	out = run(t, dir, "show")
	if !strings.Contains(out, "https://go.dev/doc") || !strings.Contains(out, "with ana, li") {
		t.Fatalf("show output:\n%s", out)
	}
}

func TestAddRejectsElapsedSlot(t *testing.T) {
	dir := t.TempDir()

	_, err := runAt(t, dir, testRef, "add", "10", "too late")
	if !errors.Is(err, planner.ErrNotAllowed) {
		t.Fatalf("err = %v, want ErrNotAllowed", err)
	}
	_, err = runAt(t, dir, testRef, "add", "20", "yesterday", "--date", "yesterday")
	if !errors.Is(err, planner.ErrNotAllowed) {
		t.Fatalf("past day: err = %v", err)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	if _, err := runAt(t, dir, testRef, "add", "25", "x"); err == nil {
		t.Fatal("expected bad slot to fail")
	}
	if _, err := runAt(t, dir, testRef, "add", "16", "x", "--kind", "memo"); err == nil {
		t.Fatal("expected unknown kind to fail")
	}
	if _, err := runAt(t, dir, testRef, "add", "16", "x", "--importance", "urgent"); err == nil {
		t.Fatal("expected bad importance to fail")
	}
}

func TestDoneToggles(t *testing.T) {
	dir := t.TempDir()
	id := addedID(t, run(t, dir, "add", "16", "stretch"))

	out := run(t, dir, "done", "16", id)
	if !strings.HasPrefix(out, "Completed") {
		t.Fatalf("done output %q", out)
	}
	out = run(t, dir, "toggle", "16", id)
	if !strings.HasPrefix(out, "Reopened") {
		t.Fatalf("toggle output %q", out)
	}
}

func TestMoveMissedTodo(t *testing.T) {
	dir := t.TempDir()
	morning := planner.Reference{Date: testRef.Date, Minute: 8 * 60}

	out, err := runAt(t, dir, morning, "add", "9", "standup notes")
	if err != nil {
		t.Fatal(err)
	}
	id := addedID(t, out)

	out = run(t, dir, "show")
	if !strings.Contains(out, "move") {
		t.Fatalf("missed todo should offer move:\n%s", out)
	}

	// Elapsed destinations are refused.
	if _, err := runAt(t, dir, testRef, "move", "9", id, "11"); !errors.Is(err, planner.ErrNotAllowed) {
		t.Fatalf("err = %v, want ErrNotAllowed", err)
	}

	out = run(t, dir, "move", "9", id, "17")
	if !strings.Contains(out, "Moved todo") || !strings.Contains(out, "17:00 - 18:00") {
		t.Fatalf("move output %q", out)
	}
	out = run(t, dir, "show")
	if strings.Contains(out, "09:00 - 10:00") {
		t.Fatal("the emptied past slot should disappear")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	id := addedID(t, run(t, dir, "add", "16", "gone soon"))

	out := run(t, dir, "rm", "16", id)
	if !strings.Contains(out, "Deleted todo "+id) {
		t.Fatalf("rm output %q", out)
	}
	if _, err := runAt(t, dir, testRef, "rm", "16", id); !errors.Is(err, planner.ErrNotFound) {
		t.Fatalf("second rm: err = %v, want ErrNotFound", err)
	}
}

// ============================================================
// Journal
// ============================================================

func TestNoteAndRate(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "note")
	if !strings.Contains(out, "No note for 2024-01-05") {
		t.Fatalf("empty note output %q", out)
	}
	run(t, dir, "note", "quiet", "day")
	if out = run(t, dir, "note"); strings.TrimSpace(out) != "quiet day" {
		t.Fatalf("note = %q", out)
	}

	out = run(t, dir, "rate", "excellent")
	if strings.TrimSpace(out) != "Rated 2024-01-05: excellent" {
		t.Fatalf("rate output %q", out)
	}
	if _, err := runAt(t, dir, testRef, "rate", "great"); err == nil {
		t.Fatal("expected unknown rating to fail")
	}

	out = run(t, dir, "show")
	if !strings.Contains(out, "Rating: excellent") || !strings.Contains(out, "Note:   quiet day") {
		t.Fatalf("show output:\n%s", out)
	}

	run(t, dir, "note", "--clear")
	if out = run(t, dir, "note"); !strings.Contains(out, "No note") {
		t.Fatalf("note after clear = %q", out)
	}
}

// ============================================================
// Navigation and reports
// ============================================================

func TestShowStep(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "add", "20", "call home")
	run(t, dir, "add", "9", "dentist", "--date", "2024-01-09")
	run(t, dir, "note", "looking back", "--date", "2024-01-02")

	out := run(t, dir, "show", "--step", "next")
	if !strings.Contains(out, "2024-01-09") || !strings.Contains(out, "dentist") {
		t.Fatalf("next output:\n%s", out)
	}
	out = run(t, dir, "show", "2024-01-09", "--step", "prev")
	if !strings.Contains(out, "2024-01-05") || !strings.Contains(out, "call home") {
		t.Fatalf("prev output:\n%s", out)
	}
	out = run(t, dir, "show", "--step", "prev")
	if !strings.Contains(out, "2024-01-02") || !strings.Contains(out, "looking back") {
		t.Fatalf("prev from today output:\n%s", out)
	}
	if _, err := runAt(t, dir, testRef, "show", "2024-01-02", "--step", "prev"); err == nil {
		t.Fatal("expected no earlier date")
	}

	// A date without content has no neighbours in either direction.
	for _, step := range []string{"prev", "next"} {
		if _, err := runAt(t, dir, testRef, "show", "2024-01-07", "--step", step); err == nil {
			t.Fatalf("expected --step %s from an empty date to fail", step)
		}
	}
	if _, err := runAt(t, dir, testRef, "show", "--step", "sideways"); err == nil {
		t.Fatal("expected unknown step to fail")
	}
}

func TestDatesAndReport(t *testing.T) {
	dir := t.TempDir()

	if out := run(t, dir, "dates"); !strings.Contains(out, "empty") {
		t.Fatalf("dates on empty planner %q", out)
	}

	id := addedID(t, run(t, dir, "add", "16", "one"))
	run(t, dir, "add", "17", "two")
	run(t, dir, "done", "16", id)
	run(t, dir, "rate", "average", "--date", "2024-01-03")

	out := run(t, dir, "dates")
	for _, want := range []string{"DATE", "2024-01-03", "2024-01-05", "1/2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dates missing %q:\n%s", want, out)
		}
	}

	out = run(t, dir, "report")
	for _, want := range []string{"2023-12-30 to 2024-01-05", "Todos: 1 done, 1 open (50%)", "Ratings: 0 excellent, 1 average, 0 terrible"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}

	out = run(t, dir, "report", "--week", "--offset", "1")
	if !strings.Contains(out, "2023-12-25 to 2023-12-31") || !strings.Contains(out, "Nothing planned") {
		t.Fatalf("last week report:\n%s", out)
	}
	if _, err := runAt(t, dir, testRef, "report", "--days", "0"); err == nil {
		t.Fatal("expected --days 0 to fail")
	}
}

// ============================================================
// Export and config
// ============================================================

func TestExport(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "add", "16", "ship it")
	run(t, dir, "add", "17", "notes", "--kind", "reflection")

	path := filepath.Join(dir, "out.json")
	out := run(t, dir, "export", "--format", "json", "--out", path, "--kind", "todo")
	if !strings.Contains(out, "Exported 1 items") {
		t.Fatalf("export output %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ship it") || strings.Contains(string(data), "notes") {
		t.Fatalf("unexpected export:\n%s", data)
	}

	ics := filepath.Join(dir, "plan.ics")
	run(t, dir, "export", "-f", "ics", "-o", ics)
	data, err = os.ReadFile(ics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "BEGIN:VCALENDAR") {
		t.Fatal("ics export is not a calendar")
	}

	if _, err := runAt(t, dir, testRef, "export", "--format", "xml"); err == nil {
		t.Fatal("expected unknown format to fail")
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "config", "path")
	if strings.TrimSpace(out) != filepath.Join(dir, "config.yaml") {
		t.Fatalf("config path = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("first run should write a default config: %v", err)
	}

	out = run(t, dir, "config", "show")
	for _, want := range []string{"db_path: " + filepath.Join(dir, "plan.db"), "timezone: UTC", "log_level: error", "transport: stdio"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestMCPRejectsUnknownTransport(t *testing.T) {
	dir := t.TempDir()
	if _, err := runAt(t, dir, testRef, "mcp", "--transport", "carrier-pigeon"); err == nil {
		t.Fatal("expected unknown transport to fail")
	}
}

// ============================================================
// Argument parsing
// ============================================================

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"14:00 - 15:00", "14:00 - 15:00", false},
		{"9", "09:00 - 10:00", false},
		{"09:45", "09:00 - 10:00", false},
		{"23:59", "23:00 - 00:00", false},
		{"now", "14:00 - 15:00", false},
		{"NOW", "14:00 - 15:00", false},
		{"24", "", true},
		{"-1", "", true},
		{"lunch", "", true},
		{"25:00", "", true},
	}
	for _, tt := range tests {
		got, err := parseSlot(tt.in, testRef)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSlot(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSlot(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2024-01-05", false},
		{"today", "2024-01-05", false},
		{"Tomorrow", "2024-01-06", false},
		{"yesterday", "2024-01-04", false},
		{"2023-12-31", "2023-12-31", false},
		{"2024-02-30", "", true},
		{"soon", "", true},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in, testRef)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDate(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got.String() != tt.want {
			t.Errorf("parseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFindItemByPrefix(t *testing.T) {
	svc := planner.NewService(planner.NewMemoryStore(nil), planner.DefaultPolicy, time.UTC)
	at := planner.Coord{Date: testRef.Date, Slot: "16:00 - 17:00"}
	a, _ := svc.Add(testRef, at, "first", planner.Todo{})
	b, _ := svc.Add(testRef, at, "second", planner.Reflection{})

	kind, it, err := findItem(svc, at, a.ID)
	if err != nil || it.ID != a.ID || kind != planner.KindTodo {
		t.Fatalf("exact id: %v %v %v", kind, it.ID, err)
	}
	kind, it, err = findItem(svc, at, shortID(b.ID))
	if err != nil || it.ID != b.ID || kind != planner.KindReflection {
		t.Fatalf("prefix: %v %v %v", kind, it.ID, err)
	}
	if _, _, err := findItem(svc, at, "zzzz"); !errors.Is(err, planner.ErrNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
	if _, _, err := findItem(svc, at, ""); err == nil || !strings.Contains(err.Error(), "matches 2 items") {
		t.Fatalf("ambiguous: err = %v", err)
	}
}

func TestMetaOptionsBuild(t *testing.T) {
	m, err := metaOptions{Importance: "high", Deadline: "tomorrow", Category: " work "}.build(planner.KindTodo, testRef)
	if err != nil {
		t.Fatal(err)
	}
	todo := m.(planner.Todo)
	if todo.Importance != planner.ImportanceHigh || todo.Deadline != testRef.Date.AddDays(1) || todo.Category != "work" {
		t.Fatalf("todo = %+v", todo)
	}

	m, err = metaOptions{Attendees: "ana,,li "}.build(planner.KindMeetingNote, testRef)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.(planner.MeetingNote).Attendees; len(got) != 2 || got[1] != "li" {
		t.Fatalf("attendees = %q", got)
	}
}
