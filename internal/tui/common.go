package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDay viewState = iota
	viewReports
	viewSettings
)

var viewNames = []string{"Day", "Reports", "Settings"}

// session is the planner state every view shares. Views hold a pointer so
// a reload after an external write reaches all of them.
type session struct {
	store *store.Store
	svc   *planner.Service
	clock planner.Clock
}

// reload rebuilds the in-memory planner from the database. Call it from
// Update only; commands capture svc before they run.
func (s *session) reload() error {
	m, err := s.store.LoadPlanner()
	if err != nil {
		return err
	}
	s.svc = planner.NewService(m, s.store.Policy(), s.svc.Location())
	return nil
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path  string
	count int
}

// dbChangedMsg reports a write to the database by another process.
type dbChangedMsg struct {
	path string
}

// --- Helpers ---

func statusCmd(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: "Error: " + err.Error(), isError: true} }
}

// formatDeadline phrases a todo deadline relative to today.
func formatDeadline(d, today planner.DateKey) string {
	switch {
	case d == today:
		return "due today"
	case d.Before(today):
		return "overdue " + humanize.RelTime(d.Time(time.UTC), today.Time(time.UTC), "ago", "from now")
	}
	return "due " + humanize.RelTime(d.Time(time.UTC), today.Time(time.UTC), "ago", "from now")
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func kindLabel(k planner.Kind) string {
	switch k {
	case planner.KindTodo:
		return "todo"
	case planner.KindMeetingNote:
		return "meeting"
	case planner.KindShareLink:
		return "link"
	case planner.KindReflection:
		return "reflection"
	}
	return string(k)
}
