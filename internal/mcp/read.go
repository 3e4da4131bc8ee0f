package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sadopc/dayplan/internal/planner"
)

type handlers struct {
	open  Opener
	clock planner.Clock
}

// dateArg reads an optional YYYY-MM-DD argument, defaulting to ref's date.
func dateArg(req mcp.CallToolRequest, key string, ref planner.Reference) (planner.DateKey, error) {
	raw := strings.TrimSpace(req.GetString(key, ""))
	if raw == "" || strings.EqualFold(raw, "today") {
		return ref.Date, nil
	}
	return planner.ParseDateKey(raw)
}

func registerReadTools(s *server.MCPServer, h *handlers) {
	s.AddTool(viewDayTool(), h.viewDay)
	s.AddTool(listItemsTool(), h.listItems)
	s.AddTool(navigateTool(), h.navigate)
	s.AddTool(eventfulDatesTool(), h.eventfulDates)
}

// --- view_day ---

func viewDayTool() mcp.Tool {
	return mcp.NewTool("view_day",
		mcp.WithDescription("Show one day's visible intervals, slots and items with the actions each item allows right now."),
		mcp.WithString("date",
			mcp.Description("Date as YYYY-MM-DD. Defaults to today."),
		),
	)
}

func (h *handlers) viewDay(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	ref := h.clock()
	date, err := dateArg(req, "date", ref)
	if err != nil {
		return toolError(err)
	}
	view, err := svc.Day(ref, date)
	if err != nil {
		return toolError(err)
	}
	nav, err := svc.Navigate(date)
	if err != nil {
		return toolError(err)
	}
	return toJSONResult(toDayDTO(view, nav))
}

// --- list_items ---

func listItemsTool() mcp.Tool {
	return mcp.NewTool("list_items",
		mcp.WithDescription("List stored items ordered by date and slot, optionally filtered by kind and date range."),
		mcp.WithString("kind",
			mcp.Description("Only list items of this kind."),
			mcp.Enum("todo", "meeting-note", "share-link", "reflection"),
		),
		mcp.WithString("from",
			mcp.Description("First date to include (YYYY-MM-DD)."),
		),
		mcp.WithString("to",
			mcp.Description("Last date to include (YYYY-MM-DD)."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of items to return."),
		),
	)
}

func (h *handlers) listItems(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	var from, to planner.DateKey
	if raw := req.GetString("from", ""); raw != "" {
		if from, err = planner.ParseDateKey(raw); err != nil {
			return toolError(err)
		}
	}
	if raw := req.GetString("to", ""); raw != "" {
		if to, err = planner.ParseDateKey(raw); err != nil {
			return toolError(err)
		}
	}
	var kind planner.Kind
	if raw := req.GetString("kind", ""); raw != "" {
		if kind, err = planner.ParseKind(raw); err != nil {
			return toolError(err)
		}
	}
	limit := req.GetInt("limit", 0)

	entries, err := svc.Entries(from, to)
	if err != nil {
		return toolError(err)
	}
	out := []itemDTO{}
	for _, e := range entries {
		if kind != "" && e.Kind != kind {
			continue
		}
		out = append(out, toEntryDTO(e))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return toJSONResult(out)
}

// --- navigate ---

func navigateTool() mcp.Tool {
	return mcp.NewTool("navigate",
		mcp.WithDescription("Find the previous and next dates that hold content, relative to a date that itself holds content."),
		mcp.WithString("date",
			mcp.Description("Date as YYYY-MM-DD. Defaults to today."),
		),
		mcp.WithString("direction",
			mcp.Description("Optional step. When set, the result is the day view of the neighbouring date."),
			mcp.Enum("prev", "next"),
		),
	)
}

func (h *handlers) navigate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	ref := h.clock()
	date, err := dateArg(req, "date", ref)
	if err != nil {
		return toolError(err)
	}
	nav, err := svc.Navigate(date)
	if err != nil {
		return toolError(err)
	}

	var dir planner.Direction
	switch d := req.GetString("direction", ""); d {
	case "":
		return toJSONResult(toNavDTO(date, nav))
	case "prev":
		dir = planner.Prev
	case "next":
		dir = planner.Next
	default:
		return toolError(fmt.Errorf("unknown direction %q", d))
	}
	target, ok := nav.Step(dir)
	if !ok {
		return toolError(fmt.Errorf("no eventful date %s %s", req.GetString("direction", ""), date))
	}
	view, err := svc.Day(ref, target)
	if err != nil {
		return toolError(err)
	}
	next, err := svc.Navigate(target)
	if err != nil {
		return toolError(err)
	}
	return toJSONResult(toDayDTO(view, next))
}

// --- eventful_dates ---

func eventfulDatesTool() mcp.Tool {
	return mcp.NewTool("eventful_dates",
		mcp.WithDescription("List every date that holds at least one item, a note or a rating, ascending."),
	)
}

func (h *handlers) eventfulDates(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, err := h.open()
	if err != nil {
		return toolError(err)
	}
	dates, err := svc.EventfulDates()
	if err != nil {
		return toolError(err)
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.String())
	}
	return toJSONResult(out)
}
