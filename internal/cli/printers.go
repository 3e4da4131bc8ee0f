package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
	cyan  = color.New(color.FgCyan)
)

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

func printDay(w io.Writer, v planner.DayView, nav planner.Navigation, loc *time.Location) {
	title := fmt.Sprintf("%s %s", v.Date.Weekday(), v.Date)
	switch v.State {
	case planner.DayToday:
		title += fmt.Sprintf(" (today, %s)", planner.FormatClock(v.Ref.Minute))
	default:
		title += " (" + v.State.String() + ")"
	}
	fmt.Fprintln(w, bold.Sprint(title))

	if v.Record.Rating != planner.RatingNone {
		fmt.Fprintf(w, "Rating: %s\n", ratingText(v.Record.Rating))
	}
	if v.Record.Note != "" {
		fmt.Fprintf(w, "Note:   %s\n", v.Record.Note)
	}
	prev, next := "-", "-"
	if nav.CanGoPrev {
		prev = nav.Prev.String()
	}
	if nav.CanGoNext {
		next = nav.Next.String()
	}
	fmt.Fprintln(w, faint.Sprintf("Prev: %s  Next: %s", prev, next))

	visible := v.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(w, faint.Sprint("\nNothing happened on this day."))
		return
	}

	for _, iv := range visible {
		head := fmt.Sprintf("%s  %s", iv.Interval.Label, iv.Interval.Range())
		if iv.Current {
			head = cyan.Sprint(head + "  <- now")
		} else {
			head = bold.Sprint(head)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, head)

		tbl := newTable()
		for _, s := range iv.Slots {
			if !s.Gate.Render {
				continue
			}
			label := s.Slot.Label()
			if s.State == planner.SlotPast {
				label = faint.Sprint(label)
			}
			if len(s.Items) == 0 {
				tbl.AddRow(label, faint.Sprint("-"))
				continue
			}
			for i, item := range s.Items {
				slot := label
				if i > 0 {
					slot = ""
				}
				tbl.AddRow(slot, shortID(item.Item.ID), kindText(item.Item), itemText(item.Item), itemDetails(item.Item, v.Ref, loc), actionText(item.Actions))
			}
		}
		fmt.Fprintln(w, tbl)
	}
}

func kindText(it planner.Item) string {
	switch it.Kind() {
	case planner.KindTodo:
		return "todo"
	case planner.KindMeetingNote:
		return "meeting"
	case planner.KindShareLink:
		return "link"
	case planner.KindReflection:
		return "reflection"
	}
	return string(it.Kind())
}

func itemText(it planner.Item) string {
	t, ok := planner.MetaOf[planner.Todo](it)
	if !ok {
		return it.Text
	}
	if t.Completed {
		return green.Sprint("[x] ") + it.Text
	}
	return "[ ] " + it.Text
}

func itemDetails(it planner.Item, ref planner.Reference, loc *time.Location) string {
	var parts []string
	switch m := it.Meta.(type) {
	case planner.Todo:
		if m.Importance != "" {
			parts = append(parts, string(m.Importance))
		}
		if m.Category != "" {
			parts = append(parts, "#"+m.Category)
		}
		if !m.Deadline.IsZero() {
			parts = append(parts, deadlineText(m.Deadline, ref, loc, m.Completed))
		}
	case planner.MeetingNote:
		if len(m.Attendees) > 0 {
			parts = append(parts, "with "+strings.Join(m.Attendees, ", "))
		}
	case planner.ShareLink:
		parts = append(parts, m.URL)
		if m.Category != "" {
			parts = append(parts, "#"+m.Category)
		}
	case planner.Reflection:
		if !m.Timestamp.IsZero() {
			parts = append(parts, m.Timestamp.In(loc).Format("15:04"))
		}
		if m.Category != "" {
			parts = append(parts, "#"+m.Category)
		}
	}
	return strings.Join(parts, " ")
}

// deadlineText phrases a deadline relative to the reference date.
func deadlineText(d planner.DateKey, ref planner.Reference, loc *time.Location, done bool) string {
	if d == ref.Date {
		return "due today"
	}
	rel := humanize.RelTime(d.Time(loc), ref.Date.Time(loc), "ago", "from now")
	if d.Before(ref.Date) && !done {
		return red.Sprint("overdue " + rel)
	}
	return "due " + rel
}

func actionText(a planner.Actions) string {
	var names []string
	if a.Edit {
		names = append(names, "edit")
	}
	if a.Toggle {
		names = append(names, "toggle")
	}
	if a.Delete {
		names = append(names, "delete")
	}
	if a.Move {
		names = append(names, "move")
	}
	if len(names) == 0 {
		return faint.Sprint("read-only")
	}
	return faint.Sprint(strings.Join(names, ","))
}

func ratingText(r planner.Rating) string {
	switch r {
	case planner.RatingExcellent:
		return green.Sprint(string(r))
	case planner.RatingTerrible:
		return red.Sprint(string(r))
	case planner.RatingNone:
		return "-"
	}
	return string(r)
}

func printEntry(w io.Writer, verb string, e planner.Entry) {
	fmt.Fprintf(w, "%s %s %s at %s %s: %s\n", verb, kindText(e.Item), shortID(e.Item.ID), e.Date, e.Slot, e.Item.Text)
}

func printSummaries(w io.Writer, rows []store.DailySummary) {
	tbl := newTable()
	tbl.AddRow(bold.Sprint("DATE"), bold.Sprint("DAY"), bold.Sprint("ITEMS"), bold.Sprint("TODOS"), bold.Sprint("RATING"), bold.Sprint("NOTE"))
	for _, r := range rows {
		todos := "-"
		if r.TodosDone+r.TodosOpen > 0 {
			todos = fmt.Sprintf("%d/%d", r.TodosDone, r.TodosDone+r.TodosOpen)
		}
		note := ""
		if r.HasNote {
			note = "yes"
		}
		tbl.AddRow(r.Date.String(), r.Date.Weekday().String()[:3], humanize.Comma(int64(r.Total())), todos, ratingText(r.Rating), note)
	}
	tbl.RightAlign(2)
	fmt.Fprintln(w, tbl)
}
