package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/dayplan/internal/planner"
)

// parseDate accepts YYYY-MM-DD, today, tomorrow and yesterday. Empty means
// today.
func parseDate(raw string, ref planner.Reference) (planner.DateKey, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "today":
		return ref.Date, nil
	case "tomorrow":
		return ref.Date.AddDays(1), nil
	case "yesterday":
		return ref.Date.AddDays(-1), nil
	}
	return planner.ParseDateKey(strings.TrimSpace(raw))
}

// parseSlot resolves a full "HH:MM - HH:MM" label, an HH:MM time, a bare
// hour or "now" to the label of the slot holding it.
func parseSlot(raw string, ref planner.Reference) (string, error) {
	raw = strings.TrimSpace(raw)
	if s, err := planner.ParseSlot(raw); err == nil {
		return s.Label(), nil
	}

	var minute int
	switch {
	case strings.EqualFold(raw, "now"):
		minute = ref.Minute
	case strings.Contains(raw, ":"):
		m, err := planner.ParseClock(raw)
		if err != nil {
			return "", err
		}
		minute = m
	default:
		h, err := strconv.Atoi(raw)
		if err != nil || h < 0 || h > 23 {
			return "", fmt.Errorf("slot %q: want HH:MM - HH:MM, HH:MM, an hour or now", raw)
		}
		minute = h * 60
	}
	for _, s := range planner.AllSlots() {
		if s.Contains(minute) {
			return s.Label(), nil
		}
	}
	return "", fmt.Errorf("slot %q: no slot holds %s", raw, planner.FormatClock(minute))
}

func parseCoord(date, slot string, ref planner.Reference) (planner.Coord, error) {
	d, err := parseDate(date, ref)
	if err != nil {
		return planner.Coord{}, err
	}
	s, err := parseSlot(slot, ref)
	if err != nil {
		return planner.Coord{}, err
	}
	return planner.Coord{Date: d, Slot: s}, nil
}

// findItem resolves an id or a unique id prefix among the items at at.
func findItem(svc *planner.Service, at planner.Coord, prefix string) (planner.Kind, planner.Item, error) {
	if kind, it, err := svc.Locate(at, prefix); err == nil {
		return kind, it, nil
	}

	var (
		kind  planner.Kind
		found []planner.Item
	)
	for _, k := range planner.Kinds {
		items, err := svc.Store().Items(k, at.Date, at.Slot)
		if err != nil {
			return "", planner.Item{}, err
		}
		for _, it := range items {
			if strings.HasPrefix(it.ID, prefix) {
				kind = k
				found = append(found, it)
			}
		}
	}
	switch len(found) {
	case 0:
		return "", planner.Item{}, fmt.Errorf("item %s at %s: %w", prefix, at, planner.ErrNotFound)
	case 1:
		return kind, found[0], nil
	}
	return "", planner.Item{}, fmt.Errorf("id prefix %q matches %d items at %s", prefix, len(found), at)
}

// shortID is the id prefix printed in tables.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// metaOptions are the payload flags of add and edit.
type metaOptions struct {
	Kind       string
	Category   string
	Importance string
	Deadline   string
	URL        string
	Attendees  string
}

func addMetaFlags(cmd *cobra.Command, o *metaOptions) {
	cmd.Flags().StringVarP(&o.Kind, "kind", "k", "", "todo, meeting-note, share-link or reflection (default from settings)")
	cmd.Flags().StringVar(&o.Category, "category", "", "category for todos, links and reflections")
	cmd.Flags().StringVar(&o.Importance, "importance", "", "todo importance: low, medium or high")
	cmd.Flags().StringVar(&o.Deadline, "deadline", "", "todo deadline, YYYY-MM-DD or tomorrow")
	cmd.Flags().StringVar(&o.URL, "url", "", "link target of a share-link")
	cmd.Flags().StringVar(&o.Attendees, "attendees", "", "comma-separated meeting attendees")
}

// build returns the payload for kind with the flags applied.
func (o metaOptions) build(kind planner.Kind, ref planner.Reference) (planner.Meta, error) {
	base, err := planner.EmptyMeta(kind)
	if err != nil {
		return nil, err
	}
	switch m := base.(type) {
	case planner.Todo:
		m.Category = strings.TrimSpace(o.Category)
		if o.Importance != "" {
			if m.Importance, err = planner.ParseImportance(o.Importance); err != nil {
				return nil, err
			}
		}
		if o.Deadline != "" {
			if m.Deadline, err = parseDate(o.Deadline, ref); err != nil {
				return nil, err
			}
		}
		return m, nil
	case planner.MeetingNote:
		m.Attendees = splitList(o.Attendees)
		return m, nil
	case planner.ShareLink:
		m.URL = strings.TrimSpace(o.URL)
		m.Category = strings.TrimSpace(o.Category)
		return m, nil
	case planner.Reflection:
		m.Category = strings.TrimSpace(o.Category)
		return m, nil
	}
	return base, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
