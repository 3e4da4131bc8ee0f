package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/sadopc/dayplan/internal/log"
	"github.com/sadopc/dayplan/internal/planner"
)

const productID = "-//sadopc//dayplan//EN"

// ToICS writes one VEVENT per entry spanning the entry's slot on its date,
// as wall-clock time in loc. Entries whose slot label does not parse are
// skipped.
func ToICS(entries []planner.Entry, loc *time.Location, path string) error {
	data, skipped := buildCalendar(entries, loc, time.Now().UTC())
	if skipped > 0 {
		log.Warn("ics export skipped entries", "count", skipped)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	return nil
}

func buildCalendar(entries []planner.Entry, loc *time.Location, stamp time.Time) (string, int) {
	if loc == nil {
		loc = time.Local
	}
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ics.MethodPublish)

	skipped := 0
	for _, e := range entries {
		slot, err := planner.ParseSlot(e.Slot)
		if err != nil {
			skipped++
			continue
		}
		ev := cal.AddEvent(eventUID(e))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(e.Date.At(slot.Start, loc))
		ev.SetEndAt(e.Date.At(slot.End, loc))
		ev.SetSummary(summaryOf(e))

		d := detailsOf(e.Item)
		if desc := describe(e.Kind, d); desc != "" {
			ev.SetDescription(desc)
		}
		if d.url != "" {
			ev.SetURL(d.url)
		}
		if d.category != "" {
			ev.SetProperty(ics.ComponentPropertyCategories, d.category)
		}
	}
	return cal.Serialize(), skipped
}

func eventUID(e planner.Entry) string {
	return e.Item.ID + "@dayplan"
}

func summaryOf(e planner.Entry) string {
	if t, ok := planner.MetaOf[planner.Todo](e.Item); ok {
		if t.Completed {
			return "[x] " + e.Item.Text
		}
		return "[ ] " + e.Item.Text
	}
	return e.Item.Text
}

func describe(kind planner.Kind, d details) string {
	lines := []string{"Kind: " + kind.Title()}
	if d.importance != "" {
		lines = append(lines, "Importance: "+d.importance)
	}
	if d.deadline != "" {
		lines = append(lines, "Deadline: "+d.deadline)
	}
	if len(d.attendees) > 0 {
		lines = append(lines, "Attendees: "+strings.Join(d.attendees, ", "))
	}
	return strings.Join(lines, "\n")
}
