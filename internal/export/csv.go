package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/dayplan/internal/planner"
)

var csvHeader = []string{
	"Date", "Slot", "Kind", "ID", "Text",
	"Done", "Category", "Importance", "Deadline", "URL", "Attendees", "Timestamp",
}

func ToCSV(entries []planner.Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range entries {
		d := detailsOf(e.Item)
		row := []string{
			e.Date.String(),
			e.Slot,
			string(e.Kind),
			e.Item.ID,
			e.Item.Text,
			d.done,
			d.category,
			d.importance,
			d.deadline,
			d.url,
			strings.Join(d.attendees, "; "),
			d.timestamp,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
