package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/dayplan/internal/log"
	"github.com/sadopc/dayplan/internal/planner"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatICS  Format = "ics"
)

// Formats lists the supported formats in picker order.
var Formats = []Format{FormatCSV, FormatJSON, FormatICS}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or ics)", s)
}

// Label is the picker text for f.
func (f Format) Label() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatJSON:
		return "JSON"
	case FormatICS:
		return "iCalendar (.ics)"
	}
	return string(f)
}

// DefaultPath names an export file in dir stamped with the date of now.
// An empty dir means the current directory.
func DefaultPath(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("dayplan-export-%s.%s", now.Format("2006-01-02"), f))
}

// Write exports entries to path in format f. loc only matters for ICS.
func Write(f Format, entries []planner.Entry, loc *time.Location, path string) error {
	var err error
	switch f {
	case FormatCSV:
		err = ToCSV(entries, path)
	case FormatJSON:
		err = ToJSON(entries, path)
	case FormatICS:
		err = ToICS(entries, loc, path)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return err
	}
	log.Info("exported entries", "format", string(f), "count", len(entries), "path", path)
	return nil
}
