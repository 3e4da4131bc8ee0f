package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type reportsModel struct {
	sess   *session
	width  int
	height int
	today  planner.DateKey

	mode      reportMode
	summaries []store.DailySummary
	offset    int // weeks or 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(sess *session, today planner.DateKey) reportsModel {
	return reportsModel{
		sess:  sess,
		today: today,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r *reportsModel) setToday(d planner.DateKey) {
	r.today = d
}

type reportsDataMsg struct {
	from, to  planner.DateKey
	summaries []store.DailySummary
}

func (r reportsModel) refresh() tea.Cmd {
	st := r.sess.store
	from, to := r.dateRange()
	return func() tea.Msg {
		summaries, err := st.DailySummary(from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Report error: %v", err), isError: true}
		}
		return reportsDataMsg{from: from, to: to, summaries: summaries}
	}
}

// dateRange returns the inclusive span on screen.
func (r reportsModel) dateRange() (planner.DateKey, planner.DateKey) {
	switch r.mode {
	case reportWeekly:
		from, to := planner.WeekOf(r.today, r.sess.store.WeekStart())
		return from.AddDays(-7 * r.offset), to.AddDays(-7 * r.offset)
	default:
		to := r.today.AddDays(-7 * r.offset)
		return to.AddDays(-6), to
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if from, to := r.dateRange(); msg.from != from || msg.to != to {
			return r, nil
		}
		r.summaries = msg.summaries
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	byDate := make(map[planner.DateKey]store.DailySummary, len(r.summaries))
	for _, s := range r.summaries {
		byDate[s.Date] = s
	}

	from, to := r.dateRange()
	doneBar := lipgloss.NewStyle().Foreground(colorDone)
	openBar := lipgloss.NewStyle().Foreground(colorOpen)
	otherBar := lipgloss.NewStyle().Foreground(colorAhead)

	var bars []barchart.BarData
	for d := from; !d.After(to); d = d.AddDays(1) {
		label := d.Time(r.sess.svc.Location()).Format("Mon 02")
		s := byDate[d]
		other := s.Total() - s.TodosDone - s.TodosOpen
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "done", Value: float64(s.TodosDone), Style: doneBar},
				{Name: "open", Value: float64(s.TodosOpen), Style: openBar},
				{Name: "other", Value: float64(other), Style: otherBar},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	loc := r.sess.svc.Location()
	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Time(loc).Format("Jan 02"), to.Time(loc).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	chartView := r.chart.View()
	tableView := r.renderSummaryTable(w)
	legend := r.renderLegend()

	nav := mutedStyle.Render("  ←/→: navigate  w: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", legend, "", tableView, "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.summaries) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %-4s %6s %8s %-10s %4s", "Date", "Day", "Items", "Todos", "Rating", "Note"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 52))))

	var items, done, todos int
	for _, s := range r.summaries {
		note := ""
		if s.HasNote {
			note = "✎"
		}
		rating := ratingStyle(s.Rating).Render(fmt.Sprintf("%-10s", ratingText(s.Rating)))
		rows = append(rows, fmt.Sprintf("  %-12s %-4s %6d %8s %s %4s",
			s.Date, s.Date.Weekday().String()[:3], s.Total(),
			fmt.Sprintf("%d/%d", s.TodosDone, s.TodosDone+s.TodosOpen), rating, note,
		))
		items += s.Total()
		done += s.TodosDone
		todos += s.TodosDone + s.TodosOpen
	}
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 52))))
	rows = append(rows, titleStyle.Render(fmt.Sprintf("  %-12s %-4s %6d %8s", "Total", "", items, fmt.Sprintf("%d/%d", done, todos))))

	return strings.Join(rows, "\n")
}

func (r reportsModel) renderLegend() string {
	if len(r.summaries) == 0 {
		return ""
	}
	dot := func(c lipgloss.Color, name string) string {
		return lipgloss.NewStyle().Foreground(c).Render("●") + " " + name
	}
	return "  " + strings.Join([]string{
		dot(colorDone, "done todos"),
		dot(colorOpen, "open todos"),
		dot(colorAhead, "other items"),
	}, "  ")
}

func ratingText(r planner.Rating) string {
	if r == planner.RatingNone {
		return "-"
	}
	return string(r)
}
