package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/dayplan/internal/planner"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Date string       `json:"date"`
	Slot string       `json:"slot"`
	Kind planner.Kind `json:"kind"`
	ID   string       `json:"id"`
	Text string       `json:"text"`
	Meta planner.Meta `json:"meta"`
}

func ToJSON(entries []planner.Entry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
		Entries:    make([]jsonEntry, 0, len(entries)),
	}

	for _, e := range entries {
		export.Entries = append(export.Entries, jsonEntry{
			Date: e.Date.String(),
			Slot: e.Slot,
			Kind: e.Kind,
			ID:   e.Item.ID,
			Text: e.Item.Text,
			Meta: e.Item.Meta,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
