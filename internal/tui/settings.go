package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
)

type settingsModel struct {
	sess   *session
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	rescuePast   *bool
	completeLate *bool
	weekStart    *string
	defaultKind  *string
}

func newSettingsModel(sess *session) settingsModel {
	rp, cl := false, false
	ws, dk := "", ""
	return settingsModel{
		sess:         sess,
		rescuePast:   &rp,
		completeLate: &cl,
		weekStart:    &ws,
		defaultKind:  &dk,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	st := s.sess.store
	return func() tea.Msg {
		settings, err := st.GetAllSettings()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	p := s.sess.store.Policy()
	*s.rescuePast = p.RescuePastTodos
	*s.completeLate = p.CompleteLateTodos
	*s.weekStart = "monday"
	if s.sess.store.WeekStart() == time.Sunday {
		*s.weekStart = "sunday"
	}
	*s.defaultKind = string(s.sess.store.DefaultKind())

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Move missed todos").
				Description("Open todos in elapsed slots stay visible and can be rescheduled").
				Value(s.rescuePast),
			huh.NewConfirm().Title("Tick off late todos").
				Description("Missed todos can still be marked done").
				Value(s.completeLate),
		).Title("Past slots"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
			huh.NewSelect[string]().Title("New items default to").
				Options(kindOptions()...).
				Value(s.defaultKind),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, errorCmd(err)
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved"))
	}

	return s, cmd
}

// saveSettings persists the form and applies the policy to the running
// service so the day view picks it up on its next load.
func (s settingsModel) saveSettings() error {
	p := planner.Policy{
		RescuePastTodos:   *s.rescuePast,
		CompleteLateTodos: *s.completeLate,
	}
	if err := s.sess.store.SetPolicy(p); err != nil {
		return err
	}
	if err := s.sess.store.SetSetting(store.KeyWeekStart, *s.weekStart); err != nil {
		return err
	}
	if err := s.sess.store.SetSetting(store.KeyDefaultKind, *s.defaultKind); err != nil {
		return err
	}
	s.sess.svc.SetPolicy(p)
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.KeyRescuePastTodos, store.KeyCompleteLateTodos:
		if b, err := strconv.ParseBool(v); err == nil {
			if b {
				return "on"
			}
			return "off"
		}
	case store.KeyDefaultKind:
		if kind, err := planner.ParseKind(v); err == nil {
			return kind.Title()
		}
	}
	return v
}
