package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/export"
	"github.com/sadopc/dayplan/internal/log"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
)

// Options configures the root model.
type Options struct {
	// Clock supplies the reference time. Defaults to the system clock in
	// the service's location.
	Clock planner.Clock
	// ExportDir is where exports land. Empty means the working directory.
	ExportDir string
	// Watch reloads the planner when another process writes the database.
	Watch bool
	// Context bounds the database watcher.
	Context context.Context
}

// App is the root Bubble Tea model.
type App struct {
	sess   *session
	width  int
	height int

	clock     clockModel
	exportDir string
	changes   <-chan store.Event

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	day      dayModel
	reports  reportsModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store, svc *planner.Service, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.Clock == nil {
		opts.Clock = planner.SystemClock(svc.Location())
	}
	sess := &session{store: s, svc: svc, clock: opts.Clock}
	clock := newClockModel(opts.Clock)

	a := App{
		sess:       sess,
		clock:      clock,
		exportDir:  opts.ExportDir,
		activeView: viewDay,
		day:        newDayModel(sess, clock.ref),
		reports:    newReportsModel(sess, clock.today()),
		settings:   newSettingsModel(sess),
		help:       h,
	}

	if opts.Watch {
		ctx := opts.Context
		if ctx == nil {
			ctx = context.Background()
		}
		ch, err := s.Watch(ctx)
		if err != nil {
			log.Warn("database watch disabled", "error", err)
		} else {
			a.changes = ch
		}
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.day.Init(),
		tickCmd(),
		waitForChange(a.changes),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the database watcher reports a write.
func waitForChange(ch <-chan store.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return dbChangedMsg{path: ev.Path}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.day.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing input (e.g. a form) gets keys first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDay
			return a, a.day.load()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		prev := a.clock.ref
		if a.clock.tick() {
			a.day.setRef(a.clock.ref)
			cmds = append(cmds, a.day.load())
			if a.clock.dateChanged(prev) {
				log.Debug("date rolled over", "from", prev.Date, "to", a.clock.today())
				a.reports.setToday(a.clock.today())
				if a.activeView == viewReports {
					cmds = append(cmds, a.reports.refresh())
				}
			}
		}
		return a, tea.Batch(cmds...)

	case dbChangedMsg:
		cmds := []tea.Cmd{waitForChange(a.changes)}
		changed, err := a.sess.store.Changed()
		if err != nil {
			log.Warn("cannot tell who wrote the database", "err", err)
		} else if !changed {
			log.Debug("ignoring own write", "path", msg.path)
			return a, tea.Batch(cmds...)
		}
		log.Debug("database changed on disk", "path", msg.path)
		if err := a.sess.reload(); err != nil {
			return a, tea.Batch(append(cmds, errorCmd(err))...)
		}
		cmds = append(cmds, a.day.load(), a.refreshCurrentView())
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		if msg.isError {
			log.Warn("ui error", "status", msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = fmt.Sprintf("Exported %d entries to %s", msg.count, msg.path)
		a.statusError = false
		a.exportPicking = false
		return a, nil

	case dayDataMsg:
		// Day data can arrive while another view is active.
		var cmd tea.Cmd
		a.day, cmd = a.day.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDay:
		a.day, cmd = a.day.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDay:
		return a.day.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDay:
		return a.day.load()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDay:
		content = a.day.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := brandStyle.Render("dayplan")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	clock := nowStyle.Render(" ● " + a.clock.String())

	left := footerStyle.Render(helpView)
	right := clock + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f.Label()))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	st, loc, dir := a.sess.store, a.sess.svc.Location(), a.exportDir
	now := a.clock.today().Time(loc)
	return func() tea.Msg {
		entries, err := st.ListItems(store.ItemFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := export.DefaultPath(dir, f, now)
		if err := export.Write(f, entries, loc, path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", f.Label(), err), isError: true}
		}
		return exportDoneMsg{path: path, count: len(entries)}
	}
}
