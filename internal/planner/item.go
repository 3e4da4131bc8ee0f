package planner

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind names one of the item collections.
type Kind string

const (
	KindTodo        Kind = "todo"
	KindMeetingNote Kind = "meeting-note"
	KindShareLink   Kind = "share-link"
	KindReflection  Kind = "reflection"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindTodo, KindMeetingNote, KindShareLink, KindReflection}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", invalid("kind", s, "want todo, meeting-note, share-link or reflection")
	}
	return k, nil
}

func (k Kind) Valid() bool {
	switch k {
	case KindTodo, KindMeetingNote, KindShareLink, KindReflection:
		return true
	}
	return false
}

// Title is the human label for a kind.
func (k Kind) Title() string {
	switch k {
	case KindTodo:
		return "Todo"
	case KindMeetingNote:
		return "Meeting note"
	case KindShareLink:
		return "Link"
	case KindReflection:
		return "Reflection"
	}
	return string(k)
}

// Meta is the kind-specific payload of an item. The set of
// implementations is closed.
type Meta interface {
	Kind() Kind
	isMeta()
}

type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

func ParseImportance(s string) (Importance, error) {
	switch i := Importance(strings.ToLower(strings.TrimSpace(s))); i {
	case "", ImportanceLow, ImportanceMedium, ImportanceHigh:
		return i, nil
	}
	return "", invalid("importance", s, "want low, medium or high")
}

type Todo struct {
	Completed  bool       `json:"completed"`
	Category   string     `json:"category,omitempty"`
	Deadline   DateKey    `json:"deadline,omitempty"`
	Importance Importance `json:"importance,omitempty"`
}

type MeetingNote struct {
	Attendees []string `json:"attendees,omitempty"`
}

type ShareLink struct {
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}

type Reflection struct {
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (Todo) Kind() Kind        { return KindTodo }
func (MeetingNote) Kind() Kind { return KindMeetingNote }
func (ShareLink) Kind() Kind   { return KindShareLink }
func (Reflection) Kind() Kind  { return KindReflection }

func (Todo) isMeta()        {}
func (MeetingNote) isMeta() {}
func (ShareLink) isMeta()   {}
func (Reflection) isMeta()  {}

// Item is a user entry stored in one (kind, date, slot) bucket. The ID is
// unique within its bucket and survives moves.
type Item struct {
	ID   string
	Text string
	Meta Meta
}

// Kind reports the item's kind, or "" when it has no payload.
func (it Item) Kind() Kind {
	if it.Meta == nil {
		return ""
	}
	return it.Meta.Kind()
}

// IsOpenTodo reports whether the item is a todo that is not completed.
func (it Item) IsOpenTodo() bool {
	t, ok := it.Meta.(Todo)
	return ok && !t.Completed
}

// MetaOf returns the item's payload as M.
func MetaOf[M Meta](it Item) (M, bool) {
	m, ok := it.Meta.(M)
	return m, ok
}

// NewID returns a fresh item identifier.
func NewID() string {
	return uuid.NewString()
}

// NewItem builds an item with a fresh identifier.
func NewItem(text string, meta Meta) Item {
	return Item{ID: NewID(), Text: text, Meta: meta}
}

// DecodeMeta rebuilds a payload from its JSON encoding.
func DecodeMeta(kind Kind, data []byte) (Meta, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}
	var (
		m   Meta
		err error
	)
	switch kind {
	case KindTodo:
		var v Todo
		err = json.Unmarshal(data, &v)
		m = v
	case KindMeetingNote:
		var v MeetingNote
		err = json.Unmarshal(data, &v)
		m = v
	case KindShareLink:
		var v ShareLink
		err = json.Unmarshal(data, &v)
		m = v
	case KindReflection:
		var v Reflection
		err = json.Unmarshal(data, &v)
		m = v
	default:
		return nil, invalid("kind", string(kind), "unknown")
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s meta: %w", kind, err)
	}
	return m, nil
}

// EmptyMeta returns the zero payload for kind.
func EmptyMeta(kind Kind) (Meta, error) {
	switch kind {
	case KindTodo:
		return Todo{}, nil
	case KindMeetingNote:
		return MeetingNote{}, nil
	case KindShareLink:
		return ShareLink{}, nil
	case KindReflection:
		return Reflection{}, nil
	}
	return nil, invalid("kind", string(kind), "unknown")
}
