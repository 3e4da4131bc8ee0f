package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/planner"
)

// dayRow is one selectable line of the day view: a slot, or an item in it.
type dayRow struct {
	interval string
	slot     planner.SlotView
	item     *planner.ItemView
}

func (r dayRow) coord(date planner.DateKey) planner.Coord {
	return planner.Coord{Date: date, Slot: r.slot.Slot.Label()}
}

type dayModel struct {
	sess   *session
	width  int
	height int

	ref  planner.Reference
	date planner.DateKey

	dv     planner.DayView
	nav    planner.Navigation
	rows   []dayRow
	cursor int
	loaded bool

	formActive bool
	form       *huh.Form
	formType   formType
	formAt     planner.Coord
	formItem   planner.Item
	values     *formValues
}

func newDayModel(sess *session, ref planner.Reference) dayModel {
	return dayModel{
		sess:   sess,
		ref:    ref,
		date:   ref.Date,
		values: &formValues{},
	}
}

func (d dayModel) Init() tea.Cmd {
	return d.load()
}

func (d *dayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dayDataMsg struct {
	date planner.DateKey
	view planner.DayView
	nav  planner.Navigation
}

// load builds the view of the viewed date against the current reference.
// It captures the service so a later reload cannot race with it.
func (d dayModel) load() tea.Cmd {
	svc, ref, date := d.sess.svc, d.ref, d.date
	return func() tea.Msg {
		view, err := svc.Day(ref, date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		nav, err := svc.Navigate(date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return dayDataMsg{date: date, view: view, nav: nav}
	}
}

// setRef moves the reference. When the date rolls over while today is on
// screen, the view follows to the new today.
func (d *dayModel) setRef(ref planner.Reference) {
	if d.date == d.ref.Date && ref.Date != d.ref.Date {
		d.date = ref.Date
		d.loaded = false
	}
	d.ref = ref
}

func (d *dayModel) goTo(date planner.DateKey) tea.Cmd {
	if date == d.date {
		return nil
	}
	d.date = date
	d.loaded = false
	return d.load()
}

func buildRows(v planner.DayView) []dayRow {
	var rows []dayRow
	for _, iv := range v.Visible() {
		for _, s := range iv.Slots {
			if !s.Gate.Render {
				continue
			}
			rows = append(rows, dayRow{interval: iv.Interval.Key, slot: s})
			for i := range s.Items {
				rows = append(rows, dayRow{interval: iv.Interval.Key, slot: s, item: &s.Items[i]})
			}
		}
	}
	return rows
}

// defaultCursor points at the slot holding the reference minute on today,
// and at the top otherwise.
func defaultCursor(rows []dayRow, ref planner.Reference, date planner.DateKey) int {
	if date != ref.Date {
		return 0
	}
	for i, r := range rows {
		if r.item == nil && r.slot.Slot.Contains(ref.Minute) {
			return i
		}
	}
	return 0
}

// applyData swaps in a new view, keeping the cursor on the same item or
// slot when it is still there.
func (d *dayModel) applyData(msg dayDataMsg) {
	var keepID, keepSlot string
	if sel, ok := d.selected(); ok && d.loaded {
		keepSlot = sel.slot.Slot.Label()
		if sel.item != nil {
			keepID = sel.item.Item.ID
		}
	}

	d.dv = msg.view
	d.nav = msg.nav
	d.rows = buildRows(msg.view)

	d.cursor = -1
	for i, r := range d.rows {
		if keepID != "" && r.item != nil && r.item.Item.ID == keepID {
			d.cursor = i
			break
		}
	}
	if d.cursor < 0 && keepSlot != "" {
		for i, r := range d.rows {
			if r.item == nil && r.slot.Slot.Label() == keepSlot {
				d.cursor = i
				break
			}
		}
	}
	if d.cursor < 0 {
		d.cursor = defaultCursor(d.rows, d.ref, d.date)
	}
	d.loaded = true
}

func (d dayModel) selected() (dayRow, bool) {
	if d.cursor < 0 || d.cursor >= len(d.rows) {
		return dayRow{}, false
	}
	return d.rows[d.cursor], true
}

func (d dayModel) selectedItem() (dayRow, bool) {
	r, ok := d.selected()
	if !ok || r.item == nil {
		return dayRow{}, false
	}
	return r, true
}

func (d dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	// Data refreshes apply even while a form is open.
	if msg, ok := msg.(dayDataMsg); ok {
		if msg.date == d.date {
			d.applyData(msg)
		}
		return d, nil
	}

	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return d.updateKeys(msg)
	}
	return d, nil
}

func (d dayModel) updateKeys(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.rows)-1 {
			d.cursor++
		}

	case key.Matches(msg, keys.Left):
		return d, d.goTo(d.date.AddDays(-1))
	case key.Matches(msg, keys.Right):
		return d, d.goTo(d.date.AddDays(1))
	case key.Matches(msg, keys.Today):
		return d, d.goTo(d.ref.Date)
	case key.Matches(msg, keys.PrevEventful):
		if target, ok := d.nav.Step(planner.Prev); ok {
			return d, d.goTo(target)
		}
		return d, statusCmd("No earlier day with content")
	case key.Matches(msg, keys.NextEventful):
		if target, ok := d.nav.Step(planner.Next); ok {
			return d, d.goTo(target)
		}
		return d, statusCmd("No later day with content")

	case key.Matches(msg, keys.Add):
		r, ok := d.selected()
		if !ok || !r.slot.Gate.AllowAdd {
			return d, statusCmd("This slot has elapsed")
		}
		return d.openForm(formAdd, r)
	case key.Matches(msg, keys.Edit):
		r, ok := d.selectedItem()
		if !ok || !r.item.Actions.Edit {
			return d, statusCmd("Nothing to edit here")
		}
		return d.openForm(formEdit, r)
	case key.Matches(msg, keys.Move):
		r, ok := d.selectedItem()
		if !ok || !r.item.Actions.Move {
			return d, statusCmd("Only missed todos can be moved")
		}
		return d.openForm(formMove, r)
	case key.Matches(msg, keys.Note):
		r, _ := d.selected()
		return d.openForm(formNote, r)
	case key.Matches(msg, keys.Rate):
		r, _ := d.selected()
		return d.openForm(formRating, r)

	case key.Matches(msg, keys.Toggle):
		return d.toggle()
	case key.Matches(msg, keys.Delete):
		return d.remove()
	case key.Matches(msg, keys.Yank):
		return d.yank()
	}
	return d, nil
}

func (d dayModel) toggle() (dayModel, tea.Cmd) {
	r, ok := d.selectedItem()
	if !ok || !r.item.Actions.Toggle {
		return d, statusCmd("This item cannot be ticked off")
	}
	it, err := d.sess.svc.Toggle(d.ref, r.coord(d.date), r.item.Item.ID)
	if err != nil {
		return d, errorCmd(err)
	}
	verb := "Reopened"
	if t, _ := planner.MetaOf[planner.Todo](it); t.Completed {
		verb = "Completed"
	}
	return d, tea.Batch(d.load(), statusCmd("%s %q", verb, it.Text))
}

func (d dayModel) remove() (dayModel, tea.Cmd) {
	r, ok := d.selectedItem()
	if !ok || !r.item.Actions.Delete {
		return d, statusCmd("This item is read-only")
	}
	it := r.item.Item
	if err := d.sess.svc.Delete(d.ref, r.coord(d.date), it.Kind(), it.ID); err != nil {
		return d, errorCmd(err)
	}
	return d, tea.Batch(d.load(), statusCmd("Deleted %q", it.Text))
}

func (d dayModel) yank() (dayModel, tea.Cmd) {
	r, ok := d.selectedItem()
	if !ok {
		return d, nil
	}
	link, ok := planner.MetaOf[planner.ShareLink](r.item.Item)
	if !ok {
		return d, statusCmd("Only links can be copied")
	}
	if err := clipboard.WriteAll(link.URL); err != nil {
		return d, errorCmd(err)
	}
	return d, statusCmd("Copied %s", link.URL)
}

func (d dayModel) openForm(t formType, r dayRow) (dayModel, tea.Cmd) {
	d.formType = t
	d.formAt = r.coord(d.date)
	d.formItem = planner.Item{}
	if r.item != nil {
		d.formItem = r.item.Item
	}

	switch t {
	case formAdd:
		d.form = newAddForm(d.values, d.sess.store.DefaultKind())
	case formEdit:
		d.form = newEditForm(d.values, d.formItem)
	case formMove:
		d.form = newMoveForm(d.values, d.ref)
	case formNote:
		d.form = newNoteForm(d.values, d.dv.Record)
	case formRating:
		d.form = newRatingForm(d.values, d.dv.Record)
	}
	d.formActive = true
	return d, d.form.Init()
}

func (d dayModel) updateForm(msg tea.Msg) (dayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	switch d.form.State {
	case huh.StateCompleted:
		d.formActive = false
		d.form = nil
		return d, tea.Batch(d.load(), d.submit())
	case huh.StateAborted:
		d.formActive = false
		d.form = nil
		return d, nil
	}
	return d, cmd
}

// submit applies a completed form through the planner service.
func (d dayModel) submit() tea.Cmd {
	svc, v := d.sess.svc, d.values
	switch d.formType {
	case formAdd:
		kind, err := planner.ParseKind(v.kind)
		if err != nil {
			return errorCmd(err)
		}
		base, _ := planner.EmptyMeta(kind)
		meta, err := v.meta(base)
		if err != nil {
			return errorCmd(err)
		}
		it, err := svc.Add(d.ref, d.formAt, v.text, meta)
		if err != nil {
			return errorCmd(err)
		}
		return statusCmd("Added %s %q", kindLabel(kind), it.Text)

	case formEdit:
		meta, err := v.meta(d.formItem.Meta)
		if err != nil {
			return errorCmd(err)
		}
		it, err := svc.Edit(d.ref, d.formAt, d.formItem.ID, v.text, meta)
		if err != nil {
			return errorCmd(err)
		}
		return statusCmd("Saved %q", it.Text)

	case formMove:
		date, err := planner.ParseDateKey(strings.TrimSpace(v.toDate))
		if err != nil {
			return errorCmd(err)
		}
		to := planner.Coord{Date: date, Slot: v.toSlot}
		if err := svc.Move(d.ref, d.formItem.Kind(), d.formAt, to, d.formItem.ID); err != nil {
			return errorCmd(err)
		}
		return statusCmd("Moved %q to %s", d.formItem.Text, to)

	case formNote:
		if err := svc.SetNote(d.date, v.note); err != nil {
			return errorCmd(err)
		}
		return statusCmd("Note saved")

	case formRating:
		r, err := planner.ParseRating(v.rating)
		if err != nil {
			return errorCmd(err)
		}
		if err := svc.SetRating(d.date, r); err != nil {
			return errorCmd(err)
		}
		return statusCmd("Rating saved")
	}
	return nil
}

func (d dayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render(d.formType.title())
		sub := mutedStyle.Render(d.formAt.String())
		content := lipgloss.JoinVertical(lipgloss.Left, title, sub, "", d.form.View())
		return activePanelStyle.Width(w).Render(content)
	}

	header := d.renderHeader(w)
	if !d.loaded {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("Loading...")))
	}

	bodyHeight := d.height - lipgloss.Height(header) - 6
	body := d.renderRows(w-6, bodyHeight)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

func (d dayModel) renderHeader(w int) string {
	t := d.date.Time(d.sess.svc.Location())
	title := titleStyle.Render(t.Format("Monday, 2 January 2006"))
	state := mutedStyle.Render(" · " + d.dv.State.String())
	if d.date == d.ref.Date {
		state = nowStyle.Render(" · today " + planner.FormatClock(d.ref.Minute))
	}

	prev, next := mutedStyle.Render("◂ -"), mutedStyle.Render("- ▸")
	if d.nav.CanGoPrev {
		prev = highlightStyle.Render("◂ " + d.nav.Prev.String())
	}
	if d.nav.CanGoNext {
		next = highlightStyle.Render(d.nav.Next.String() + " ▸")
	}
	navText := prev + mutedStyle.Render("  ") + next

	left := title + state
	gap := w - 6 - lipgloss.Width(left) - lipgloss.Width(navText)
	if gap < 1 {
		gap = 1
	}
	lines := []string{left + strings.Repeat(" ", gap) + navText}

	var rec []string
	if r := d.dv.Record.Rating; r != planner.RatingNone {
		rec = append(rec, ratingStyle(r).Render("★ "+string(r)))
	}
	if n := d.dv.Record.Note; n != "" {
		first, _, _ := strings.Cut(n, "\n")
		rec = append(rec, subtitleStyle.Render("Note: "+truncate(first, w-24)))
	}
	if len(rec) > 0 {
		lines = append(lines, strings.Join(rec, "   "))
	}
	return strings.Join(lines, "\n")
}

// renderRows draws interval headings and rows, scrolled so the cursor
// stays within height lines.
func (d dayModel) renderRows(w, height int) string {
	if len(d.rows) == 0 {
		return mutedStyle.Render("Nothing happened on this day. Use h/l or [ ] to look elsewhere.")
	}

	titles := make(map[string]planner.IntervalView)
	for _, iv := range d.dv.Intervals {
		titles[iv.Interval.Key] = iv
	}

	var lines []string
	cursorLine := 0
	prevInterval := ""
	for i, r := range d.rows {
		if r.interval != prevInterval {
			iv := titles[r.interval]
			head := fmt.Sprintf("%s  %s", iv.Interval.Label, iv.Interval.Range())
			switch {
			case iv.Current:
				head = currentIntervalStyle.Render("● " + head)
			case elapsed(iv):
				head = elapsedIntervalStyle.Render("  " + head)
			default:
				head = intervalStyle.Render("  " + head)
			}
			if prevInterval != "" {
				lines = append(lines, "")
			}
			lines = append(lines, head)
			prevInterval = r.interval
		}
		if i == d.cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, d.renderRow(r, i == d.cursor, w))
	}

	if height < 3 {
		height = 3
	}
	start, end := scrollWindow(len(lines), cursorLine, height)
	return strings.Join(lines[start:end], "\n")
}

// scrollWindow returns the [start, end) range of total lines to show so
// that line cursor is visible within height lines.
func scrollWindow(total, cursor, height int) (int, int) {
	if total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

func (d dayModel) renderRow(r dayRow, selected bool, w int) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}

	if r.item == nil {
		label := r.slot.Slot.Label()
		style := slotStyle(r.slot.State)
		if selected {
			style = selectedItemStyle
		}
		line := style.Render(cursor + "  " + label)
		if len(r.slot.Items) == 0 && r.slot.Gate.AllowAdd && selected {
			line += mutedStyle.Render("  n: add")
		}
		return line
	}

	it := r.item.Item
	text := it.Text
	mark := kindStyle(it.Kind()).Render("•") + " "
	if t, ok := planner.MetaOf[planner.Todo](it); ok {
		mark = "[ ] "
		if t.Completed {
			mark = "[x] "
		}
	}
	details := itemDetails(it, d.ref.Date)
	avail := w - 20 - lipgloss.Width(details)
	if avail < 10 {
		avail = 10
	}
	text = truncate(text, avail)

	style := normalItemStyle
	if t, ok := planner.MetaOf[planner.Todo](it); ok && t.Completed {
		style = doneStyle
	}
	if !r.item.Actions.Any() {
		style = readOnlyStyle
	}
	if selected {
		style = selectedItemStyle
	}

	line := cursor + "      " + mark + style.Render(text)
	if details != "" {
		line += "  " + mutedStyle.Render(details)
	}
	if r.item.Actions.Move {
		line += "  " + missedStyle.Render("missed")
	}
	return line
}

// elapsed reports whether every slot of the interval is behind now.
func elapsed(iv planner.IntervalView) bool {
	for _, s := range iv.Slots {
		if s.State != planner.SlotPast {
			return false
		}
	}
	return len(iv.Slots) > 0
}

func itemDetails(it planner.Item, today planner.DateKey) string {
	var parts []string
	switch m := it.Meta.(type) {
	case planner.Todo:
		if m.Importance != "" {
			parts = append(parts, "!"+string(m.Importance))
		}
		if m.Category != "" {
			parts = append(parts, "#"+m.Category)
		}
		if !m.Deadline.IsZero() && !m.Completed {
			parts = append(parts, formatDeadline(m.Deadline, today))
		}
	case planner.MeetingNote:
		parts = append(parts, kindLabel(planner.KindMeetingNote))
		if len(m.Attendees) > 0 {
			parts = append(parts, "with "+strings.Join(m.Attendees, ", "))
		}
	case planner.ShareLink:
		parts = append(parts, m.URL)
		if m.Category != "" {
			parts = append(parts, "#"+m.Category)
		}
	case planner.Reflection:
		parts = append(parts, kindLabel(planner.KindReflection))
		if !m.Timestamp.IsZero() {
			parts = append(parts, m.Timestamp.Format("15:04"))
		}
		if m.Category != "" {
			parts = append(parts, "#"+m.Category)
		}
	}
	return strings.Join(parts, " ")
}
