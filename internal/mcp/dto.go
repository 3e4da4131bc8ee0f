package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sadopc/dayplan/internal/planner"
)

type dayDTO struct {
	Date       string        `json:"date"`
	State      string        `json:"state"`
	Now        string        `json:"now"`
	Note       string        `json:"note,omitempty"`
	Rating     string        `json:"rating,omitempty"`
	Navigation navDTO        `json:"navigation"`
	Intervals  []intervalDTO `json:"intervals"`
}

type intervalDTO struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Current bool      `json:"current,omitempty"`
	Slots   []slotDTO `json:"slots"`
}

type slotDTO struct {
	Slot   string    `json:"slot"`
	State  string    `json:"state"`
	CanAdd bool      `json:"can_add"`
	Items  []itemDTO `json:"items,omitempty"`
}

type itemDTO struct {
	Date    string       `json:"date,omitempty"`
	Slot    string       `json:"slot,omitempty"`
	ID      string       `json:"id"`
	Kind    planner.Kind `json:"kind"`
	Text    string       `json:"text"`
	Meta    planner.Meta `json:"meta"`
	Actions []string     `json:"actions,omitempty"`
}

type navDTO struct {
	Date      string `json:"date"`
	CanGoPrev bool   `json:"can_go_prev"`
	CanGoNext bool   `json:"can_go_next"`
	Prev      string `json:"prev,omitempty"`
	Next      string `json:"next,omitempty"`
}

func toNavDTO(date planner.DateKey, n planner.Navigation) navDTO {
	return navDTO{
		Date:      date.String(),
		CanGoPrev: n.CanGoPrev,
		CanGoNext: n.CanGoNext,
		Prev:      n.Prev.String(),
		Next:      n.Next.String(),
	}
}

// toDayDTO keeps only what renders: hidden intervals and slots are dropped.
func toDayDTO(v planner.DayView, nav planner.Navigation) dayDTO {
	out := dayDTO{
		Date:       v.Date.String(),
		State:      v.State.String(),
		Now:        v.Ref.String(),
		Note:       v.Record.Note,
		Rating:     string(v.Record.Rating),
		Navigation: toNavDTO(v.Date, nav),
		Intervals:  []intervalDTO{},
	}
	for _, iv := range v.Visible() {
		ivd := intervalDTO{Key: iv.Interval.Key, Label: iv.Interval.Label, Current: iv.Current}
		for _, s := range iv.Slots {
			if !s.Gate.Render {
				continue
			}
			sd := slotDTO{Slot: s.Slot.Label(), State: s.State.String(), CanAdd: s.Gate.AllowAdd}
			for _, it := range s.Items {
				sd.Items = append(sd.Items, itemDTO{
					ID:      it.Item.ID,
					Kind:    it.Item.Kind(),
					Text:    it.Item.Text,
					Meta:    it.Item.Meta,
					Actions: actionNames(it.Actions),
				})
			}
			ivd.Slots = append(ivd.Slots, sd)
		}
		out.Intervals = append(out.Intervals, ivd)
	}
	return out
}

func toEntryDTO(e planner.Entry) itemDTO {
	return itemDTO{
		Date: e.Date.String(),
		Slot: e.Slot,
		ID:   e.Item.ID,
		Kind: e.Kind,
		Text: e.Item.Text,
		Meta: e.Item.Meta,
	}
}

func actionNames(a planner.Actions) []string {
	var out []string
	if a.Edit {
		out = append(out, "edit")
	}
	if a.Toggle {
		out = append(out, "toggle")
	}
	if a.Delete {
		out = append(out, "delete")
	}
	if a.Move {
		out = append(out, "move")
	}
	return out
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
