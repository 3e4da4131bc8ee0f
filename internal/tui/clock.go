package tui

import (
	"github.com/sadopc/dayplan/internal/planner"
)

// clockModel owns the reference the UI renders against. It is separate
// from display so that every view agrees on one "now" between ticks.
type clockModel struct {
	now planner.Clock
	ref planner.Reference
}

func newClockModel(c planner.Clock) clockModel {
	return clockModel{now: c, ref: c()}
}

// tick captures a new reference and reports whether the minute or the
// date moved.
func (c *clockModel) tick() bool {
	r := c.now()
	if r == c.ref {
		return false
	}
	c.ref = r
	return true
}

// dateChanged reports whether prev and the current reference fall on
// different dates.
func (c clockModel) dateChanged(prev planner.Reference) bool {
	return prev.Date != c.ref.Date
}

func (c clockModel) today() planner.DateKey {
	return c.ref.Date
}

func (c clockModel) String() string {
	return planner.FormatClock(c.ref.Minute)
}
