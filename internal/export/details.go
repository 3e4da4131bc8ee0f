package export

import (
	"strconv"
	"time"

	"github.com/sadopc/dayplan/internal/planner"
)

// details flattens an item's payload into display strings. Fields that do
// not apply to the item's kind stay empty.
type details struct {
	done       string
	category   string
	importance string
	deadline   string
	url        string
	attendees  []string
	timestamp  string
}

func detailsOf(it planner.Item) details {
	var d details
	switch m := it.Meta.(type) {
	case planner.Todo:
		d.done = strconv.FormatBool(m.Completed)
		d.category = m.Category
		d.importance = string(m.Importance)
		d.deadline = m.Deadline.String()
	case planner.MeetingNote:
		d.attendees = m.Attendees
	case planner.ShareLink:
		d.url = m.URL
		d.category = m.Category
	case planner.Reflection:
		d.category = m.Category
		if !m.Timestamp.IsZero() {
			d.timestamp = m.Timestamp.Format(time.RFC3339)
		}
	}
	return d
}
