package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sadopc/dayplan/internal/log"
	"github.com/sadopc/dayplan/internal/planner"
)

func registerWriteTools(s *server.MCPServer, h *handlers) {
	s.AddTool(addItemTool(), h.addItem)
	s.AddTool(editItemTool(), h.editItem)
	s.AddTool(toggleTodoTool(), h.toggleTodo)
	s.AddTool(moveItemTool(), h.moveItem)
	s.AddTool(deleteItemTool(), h.deleteItem)
	s.AddTool(setNoteTool(), h.setNote)
	s.AddTool(setRatingTool(), h.setRating)
}

// metaArgs are the optional payload fields shared by add_item and
// edit_item. Empty strings leave a field untouched.
type metaArgs struct {
	Category   string `json:"category"`
	Importance string `json:"importance"`
	Deadline   string `json:"deadline"`
	URL        string `json:"url"`
	Attendees  string `json:"attendees"`
	Completed  string `json:"completed"`
}

func withMetaArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("category", mcp.Description("Category for todos, links and reflections.")),
		mcp.WithString("importance", mcp.Description("Todo importance."), mcp.Enum("low", "medium", "high")),
		mcp.WithString("deadline", mcp.Description("Todo deadline as YYYY-MM-DD.")),
		mcp.WithString("url", mcp.Description("Link target, required for share-link items.")),
		mcp.WithString("attendees", mcp.Description("Comma-separated meeting attendees.")),
		mcp.WithString("completed", mcp.Description("Todo completion as true or false.")),
	}
}

// apply overlays the provided fields onto base.
func (a metaArgs) apply(base planner.Meta) (planner.Meta, error) {
	switch m := base.(type) {
	case planner.Todo:
		if a.Category != "" {
			m.Category = a.Category
		}
		if a.Importance != "" {
			imp, err := planner.ParseImportance(a.Importance)
			if err != nil {
				return nil, err
			}
			m.Importance = imp
		}
		if a.Deadline != "" {
			d, err := planner.ParseDateKey(a.Deadline)
			if err != nil {
				return nil, err
			}
			m.Deadline = d
		}
		if a.Completed != "" {
			b, err := strconv.ParseBool(a.Completed)
			if err != nil {
				return nil, fmt.Errorf("completed: %w", err)
			}
			m.Completed = b
		}
		return m, nil
	case planner.MeetingNote:
		if a.Attendees != "" {
			m.Attendees = splitList(a.Attendees)
		}
		return m, nil
	case planner.ShareLink:
		if a.URL != "" {
			m.URL = strings.TrimSpace(a.URL)
		}
		if a.Category != "" {
			m.Category = a.Category
		}
		return m, nil
	case planner.Reflection:
		if a.Category != "" {
			m.Category = a.Category
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported payload %T", base)
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

func coordArg(req mcp.CallToolRequest, dateKey, slotKey string, ref planner.Reference) (planner.Coord, error) {
	date, err := dateArg(req, dateKey, ref)
	if err != nil {
		return planner.Coord{}, err
	}
	slot, err := req.RequireString(slotKey)
	if err != nil {
		return planner.Coord{}, err
	}
	return planner.Coord{Date: date, Slot: slot}, nil
}

func (h *handlers) fail(tool string, err error) (*mcp.CallToolResult, error) {
	log.Error("mcp tool failed", err, "tool", tool)
	return toolError(err)
}

// --- add_item ---

func addItemTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Add an item to a slot. Only slots that have not elapsed accept new items."),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD. Defaults to today.")),
		mcp.WithString("slot", mcp.Required(), mcp.Description("Slot label such as \"14:00 - 15:00\".")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Item kind."), mcp.Enum("todo", "meeting-note", "share-link", "reflection")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Item text.")),
	}
	return mcp.NewTool("add_item", append(opts, withMetaArgs()...)...)
}

func (h *handlers) addItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
		metaArgs
	}
	if err := req.BindArguments(&args); err != nil {
		return toolError(fmt.Errorf("invalid arguments: %w", err))
	}
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	ref := h.clock()
	at, err := coordArg(req, "date", "slot", ref)
	if err != nil {
		return toolError(err)
	}
	kind, err := planner.ParseKind(args.Kind)
	if err != nil {
		return toolError(err)
	}
	base, _ := planner.EmptyMeta(kind)
	meta, err := args.metaArgs.apply(base)
	if err != nil {
		return toolError(err)
	}
	it, err := svc.Add(ref, at, args.Text, meta)
	if err != nil {
		return h.fail("add_item", err)
	}
	return toJSONResult(toEntryDTO(planner.Entry{Kind: kind, Date: at.Date, Slot: at.Slot, Item: it}))
}

// --- edit_item ---

func editItemTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Edit an item's text or payload fields. Omitted fields keep their value."),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD. Defaults to today.")),
		mcp.WithString("slot", mcp.Required(), mcp.Description("Slot label holding the item.")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item identifier.")),
		mcp.WithString("text", mcp.Description("New item text.")),
	}
	return mcp.NewTool("edit_item", append(opts, withMetaArgs()...)...)
}

func (h *handlers) editItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ID   string `json:"id"`
		Text string `json:"text"`
		metaArgs
	}
	if err := req.BindArguments(&args); err != nil {
		return toolError(fmt.Errorf("invalid arguments: %w", err))
	}
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	ref := h.clock()
	at, err := coordArg(req, "date", "slot", ref)
	if err != nil {
		return toolError(err)
	}
	kind, cur, err := svc.Locate(at, args.ID)
	if err != nil {
		return toolError(err)
	}
	meta, err := args.metaArgs.apply(cur.Meta)
	if err != nil {
		return toolError(err)
	}
	text := args.Text
	if strings.TrimSpace(text) == "" {
		text = cur.Text
	}
	it, err := svc.Edit(ref, at, args.ID, text, meta)
	if err != nil {
		return h.fail("edit_item", err)
	}
	return toJSONResult(toEntryDTO(planner.Entry{Kind: kind, Date: at.Date, Slot: at.Slot, Item: it}))
}

// --- toggle_todo ---

func toggleTodoTool() mcp.Tool {
	return mcp.NewTool("toggle_todo",
		mcp.WithDescription("Flip a todo between open and completed."),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD. Defaults to today.")),
		mcp.WithString("slot", mcp.Required(), mcp.Description("Slot label holding the todo.")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Todo identifier.")),
	)
}

func (h *handlers) toggleTodo(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	ref := h.clock()
	at, err := coordArg(req, "date", "slot", ref)
	if err != nil {
		return toolError(err)
	}
	id, err := req.RequireString("id")
	if err != nil {
		return toolError(err)
	}
	it, err := svc.Toggle(ref, at, id)
	if err != nil {
		return h.fail("toggle_todo", err)
	}
	return toJSONResult(toEntryDTO(planner.Entry{Kind: planner.KindTodo, Date: at.Date, Slot: at.Slot, Item: it}))
}

// --- move_item ---

func moveItemTool() mcp.Tool {
	return mcp.NewTool("move_item",
		mcp.WithDescription("Move a missed todo out of an elapsed slot into a slot that is still open."),
		mcp.WithString("date", mcp.Description("Source date as YYYY-MM-DD. Defaults to today.")),
		mcp.WithString("slot", mcp.Required(), mcp.Description("Source slot label.")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item identifier.")),
		mcp.WithString("to_date", mcp.Description("Destination date. Defaults to today.")),
		mcp.WithString("to_slot", mcp.Required(), mcp.Description("Destination slot label.")),
	)
}

func (h *handlers) moveItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	ref := h.clock()
	from, err := coordArg(req, "date", "slot", ref)
	if err != nil {
		return toolError(err)
	}
	to, err := coordArg(req, "to_date", "to_slot", ref)
	if err != nil {
		return toolError(err)
	}
	id, err := req.RequireString("id")
	if err != nil {
		return toolError(err)
	}
	kind, it, err := svc.Locate(from, id)
	if err != nil {
		return toolError(err)
	}
	if err := svc.Move(ref, kind, from, to, id); err != nil {
		return h.fail("move_item", err)
	}
	return toJSONResult(toEntryDTO(planner.Entry{Kind: kind, Date: to.Date, Slot: to.Slot, Item: it}))
}

// --- delete_item ---

func deleteItemTool() mcp.Tool {
	return mcp.NewTool("delete_item",
		mcp.WithDescription("Delete an item from a slot that has not elapsed."),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD. Defaults to today.")),
		mcp.WithString("slot", mcp.Required(), mcp.Description("Slot label holding the item.")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item identifier.")),
	)
}

func (h *handlers) deleteItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	ref := h.clock()
	at, err := coordArg(req, "date", "slot", ref)
	if err != nil {
		return toolError(err)
	}
	id, err := req.RequireString("id")
	if err != nil {
		return toolError(err)
	}
	kind, _, err := svc.Locate(at, id)
	if err != nil {
		return toolError(err)
	}
	if err := svc.Delete(ref, at, kind, id); err != nil {
		return h.fail("delete_item", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted %s %s from %s.", kind, id, at)), nil
}

// --- set_note ---

func setNoteTool() mcp.Tool {
	return mcp.NewTool("set_note",
		mcp.WithDescription("Set the free-text note of a day. An empty note clears it."),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD. Defaults to today.")),
		mcp.WithString("note", mcp.Description("Note text.")),
	)
}

func (h *handlers) setNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	date, err := dateArg(req, "date", h.clock())
	if err != nil {
		return toolError(err)
	}
	if err := svc.SetNote(date, req.GetString("note", "")); err != nil {
		return h.fail("set_note", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Note for %s saved.", date)), nil
}

// --- set_rating ---

func setRatingTool() mcp.Tool {
	return mcp.NewTool("set_rating",
		mcp.WithDescription("Rate a day."),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD. Defaults to today.")),
		mcp.WithString("rating", mcp.Required(), mcp.Description("Day rating."), mcp.Enum("excellent", "average", "terrible", "none")),
	)
}

func (h *handlers) setRating(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	date, err := dateArg(req, "date", h.clock())
	if err != nil {
		return toolError(err)
	}
	raw, err := req.RequireString("rating")
	if err != nil {
		return toolError(err)
	}
	r, err := planner.ParseRating(raw)
	if err != nil {
		return toolError(err)
	}
	if err := svc.SetRating(date, r); err != nil {
		return h.fail("set_rating", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Rating for %s set to %s.", date, raw)), nil
}
