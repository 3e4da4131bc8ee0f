package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/planner"
)

// Palette. Time of day runs from cool (elapsed) to warm (now).
var (
	colorBrand   = lipgloss.Color("#6C63FF")
	colorNow     = lipgloss.Color("#2EC4B6")
	colorAhead   = lipgloss.Color("#7AA2F7")
	colorElapsed = lipgloss.Color("#414868")
	colorText    = lipgloss.Color("#C0CAF5")
	colorFaint   = lipgloss.Color("#666666")

	colorDone   = lipgloss.Color("#2ECC71")
	colorOpen   = lipgloss.Color("#FF6B6B")
	colorMissed = lipgloss.Color("#F39C12")
	colorFail   = lipgloss.Color("#E74C3C")

	colorMeeting    = lipgloss.Color("#BB9AF7")
	colorLink       = lipgloss.Color("#7DCFFF")
	colorReflection = lipgloss.Color("#E0AF68")
)

var (
	// Tabs and panels
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrand).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorBrand).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorFaint).
				Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorElapsed).
			Padding(1, 2)

	activePanelStyle = panelStyle.
				BorderForeground(colorBrand)

	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrand)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorFaint).Padding(0, 1)

	// Intervals and slots
	intervalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	currentIntervalStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorNow)

	elapsedIntervalStyle = lipgloss.NewStyle().
				Foreground(colorElapsed)

	pastSlotStyle   = lipgloss.NewStyle().Foreground(colorElapsed)
	activeSlotStyle = lipgloss.NewStyle().Foreground(colorNow).Bold(true)
	futureSlotStyle = lipgloss.NewStyle().Foreground(colorAhead)

	// Items
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorText)
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	doneStyle         = lipgloss.NewStyle().Foreground(colorFaint).Strikethrough(true)
	missedStyle       = lipgloss.NewStyle().Foreground(colorMissed)
	readOnlyStyle     = lipgloss.NewStyle().Foreground(colorFaint).Italic(true)

	// Text
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	subtitleStyle  = lipgloss.NewStyle().Foreground(colorFaint)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorFaint)
	highlightStyle = lipgloss.NewStyle().Foreground(colorAhead)
	nowStyle       = lipgloss.NewStyle().Foreground(colorNow)
	errorStyle     = lipgloss.NewStyle().Foreground(colorFail)
)

// slotStyle colors a slot label by where it sits relative to now.
func slotStyle(s planner.SlotState) lipgloss.Style {
	switch s {
	case planner.SlotPast:
		return pastSlotStyle
	case planner.SlotActive:
		return activeSlotStyle
	}
	return futureSlotStyle
}

func kindStyle(k planner.Kind) lipgloss.Style {
	c := colorText
	switch k {
	case planner.KindMeetingNote:
		c = colorMeeting
	case planner.KindShareLink:
		c = colorLink
	case planner.KindReflection:
		c = colorReflection
	}
	return lipgloss.NewStyle().Foreground(c)
}

func ratingStyle(r planner.Rating) lipgloss.Style {
	switch r {
	case planner.RatingExcellent:
		return lipgloss.NewStyle().Foreground(colorDone)
	case planner.RatingAverage:
		return lipgloss.NewStyle().Foreground(colorMissed)
	case planner.RatingTerrible:
		return lipgloss.NewStyle().Foreground(colorFail)
	}
	return mutedStyle
}
