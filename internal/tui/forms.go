package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/sadopc/dayplan/internal/planner"
)

type formType int

const (
	formAdd formType = iota
	formEdit
	formMove
	formNote
	formRating
)

func (f formType) title() string {
	switch f {
	case formAdd:
		return "New Item"
	case formEdit:
		return "Edit Item"
	case formMove:
		return "Move Todo"
	case formNote:
		return "Day Note"
	case formRating:
		return "Rate Day"
	}
	return ""
}

// formValues backs every field of the day view forms. The model holds a
// pointer so values survive Bubble Tea's value copies.
type formValues struct {
	kind       string
	text       string
	category   string
	importance string
	deadline   string
	url        string
	attendees  string

	toDate string
	toSlot string

	note   string
	rating string
}

func (v *formValues) reset() {
	*v = formValues{}
}

// load fills the fields from an existing item.
func (v *formValues) load(it planner.Item) {
	v.reset()
	v.kind = string(it.Kind())
	v.text = it.Text
	switch m := it.Meta.(type) {
	case planner.Todo:
		v.category = m.Category
		v.importance = string(m.Importance)
		if !m.Deadline.IsZero() {
			v.deadline = m.Deadline.String()
		}
	case planner.MeetingNote:
		v.attendees = strings.Join(m.Attendees, ", ")
	case planner.ShareLink:
		v.url = m.URL
		v.category = m.Category
	case planner.Reflection:
		v.category = m.Category
	}
}

// meta overlays the form fields on base. Fields the form does not show,
// such as a todo's completion or a reflection's timestamp, are kept.
func (v *formValues) meta(base planner.Meta) (planner.Meta, error) {
	switch m := base.(type) {
	case planner.Todo:
		m.Category = strings.TrimSpace(v.category)
		imp, err := planner.ParseImportance(v.importance)
		if err != nil {
			return nil, err
		}
		m.Importance = imp
		m.Deadline = planner.DateKey{}
		if d := strings.TrimSpace(v.deadline); d != "" {
			if m.Deadline, err = planner.ParseDateKey(d); err != nil {
				return nil, err
			}
		}
		return m, nil
	case planner.MeetingNote:
		m.Attendees = nil
		for _, a := range strings.Split(v.attendees, ",") {
			if a = strings.TrimSpace(a); a != "" {
				m.Attendees = append(m.Attendees, a)
			}
		}
		return m, nil
	case planner.ShareLink:
		m.URL = strings.TrimSpace(v.url)
		m.Category = strings.TrimSpace(v.category)
		return m, nil
	case planner.Reflection:
		m.Category = strings.TrimSpace(v.category)
		return m, nil
	}
	return nil, errors.New("unknown item kind")
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := planner.ParseDateKey(strings.TrimSpace(s))
	return err
}

func kindOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(planner.Kinds))
	for i, k := range planner.Kinds {
		opts[i] = huh.NewOption(k.Title(), string(k))
	}
	return opts
}

// payloadGroups are the kind-specific fields. Each group is hidden unless
// the selected kind matches.
func payloadGroups(v *formValues) []*huh.Group {
	hiddenUnless := func(k planner.Kind) func() bool {
		return func() bool { return v.kind != string(k) }
	}
	return []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[string]().Title("Importance").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("Low", string(planner.ImportanceLow)),
					huh.NewOption("Medium", string(planner.ImportanceMedium)),
					huh.NewOption("High", string(planner.ImportanceHigh)),
				).Value(&v.importance),
			huh.NewInput().Title("Category").Value(&v.category),
			huh.NewInput().Title("Deadline (YYYY-MM-DD)").Value(&v.deadline).Validate(optionalDate),
		).WithHideFunc(hiddenUnless(planner.KindTodo)),
		huh.NewGroup(
			huh.NewInput().Title("Attendees (comma-separated)").Value(&v.attendees),
		).WithHideFunc(hiddenUnless(planner.KindMeetingNote)),
		huh.NewGroup(
			huh.NewInput().Title("URL").Value(&v.url).Validate(notEmpty),
			huh.NewInput().Title("Category").Value(&v.category),
		).WithHideFunc(hiddenUnless(planner.KindShareLink)),
		huh.NewGroup(
			huh.NewInput().Title("Category").Value(&v.category),
		).WithHideFunc(hiddenUnless(planner.KindReflection)),
	}
}

func newAddForm(v *formValues, kind planner.Kind) *huh.Form {
	v.reset()
	v.kind = string(kind)
	groups := append([]*huh.Group{
		huh.NewGroup(
			huh.NewSelect[string]().Title("Kind").Options(kindOptions()...).Value(&v.kind),
			huh.NewInput().Title("Text").Value(&v.text).Validate(notEmpty),
		),
	}, payloadGroups(v)...)
	return huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
}

func newEditForm(v *formValues, it planner.Item) *huh.Form {
	v.load(it)
	groups := append([]*huh.Group{
		huh.NewGroup(
			huh.NewInput().Title("Text").Value(&v.text).Validate(notEmpty),
		),
	}, payloadGroups(v)...)
	return huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
}

// newMoveForm offers every slot; the planner refuses destinations that
// have elapsed.
func newMoveForm(v *formValues, ref planner.Reference) *huh.Form {
	v.reset()
	v.toDate = ref.Date.String()
	slots := planner.AllSlots()
	opts := make([]huh.Option[string], 0, len(slots))
	for _, s := range slots {
		opts = append(opts, huh.NewOption(s.Label(), s.Label()))
		if s.Contains(ref.Minute) {
			v.toSlot = s.Label()
		}
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Destination date (YYYY-MM-DD)").Value(&v.toDate).Validate(func(s string) error {
				_, err := planner.ParseDateKey(strings.TrimSpace(s))
				return err
			}),
			huh.NewSelect[string]().Title("Destination slot").Options(opts...).Height(8).Value(&v.toSlot),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func newNoteForm(v *formValues, rec planner.DayRecord) *huh.Form {
	v.reset()
	v.note = rec.Note
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Note").Value(&v.note),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func newRatingForm(v *formValues, rec planner.DayRecord) *huh.Form {
	v.reset()
	v.rating = string(rec.Rating)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("How was the day?").
				Options(
					huh.NewOption("Excellent", string(planner.RatingExcellent)),
					huh.NewOption("Average", string(planner.RatingAverage)),
					huh.NewOption("Terrible", string(planner.RatingTerrible)),
					huh.NewOption("No rating", string(planner.RatingNone)),
				).Value(&v.rating),
		),
	).WithShowHelp(true).WithShowErrors(true)
}
