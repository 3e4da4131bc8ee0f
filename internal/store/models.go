package store

import "github.com/sadopc/dayplan/internal/planner"

type Setting struct {
	Key   string
	Value string
}

// Setting keys understood by the planner.
const (
	KeyRescuePastTodos   = "rescue_past_todos"
	KeyCompleteLateTodos = "complete_late_todos"
	KeyWeekStart         = "week_start"
	KeyDefaultKind       = "default_kind"
)

// ItemFilter is used to filter stored items in queries. Zero values match
// everything.
type ItemFilter struct {
	Kind  planner.Kind
	From  planner.DateKey
	To    planner.DateKey
	Limit int
}

// DailySummary aggregates one date's content.
type DailySummary struct {
	Date      planner.DateKey
	Items     map[planner.Kind]int
	TodosDone int
	TodosOpen int
	Rating    planner.Rating
	HasNote   bool
}

// Total returns the number of items across kinds.
func (d DailySummary) Total() int {
	n := 0
	for _, c := range d.Items {
		n += c
	}
	return n
}
