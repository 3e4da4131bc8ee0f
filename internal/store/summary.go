package store

import (
	"fmt"
	"sort"

	"github.com/sadopc/dayplan/internal/planner"
)

// DailySummary aggregates items and day records per date in [from, to].
// Dates without any content are omitted.
func (s *Store) DailySummary(from, to planner.DateKey) ([]DailySummary, error) {
	byDate := make(map[planner.DateKey]*DailySummary)
	var order []planner.DateKey
	get := func(d planner.DateKey) *DailySummary {
		ds, ok := byDate[d]
		if !ok {
			ds = &DailySummary{Date: d, Items: make(map[planner.Kind]int)}
			byDate[d] = ds
			order = append(order, d)
		}
		return ds
	}

	rows, err := s.db.Query(`
		SELECT date, kind, COUNT(*),
		       COALESCE(SUM(CASE WHEN json_extract(meta, '$.completed') THEN 1 ELSE 0 END), 0)
		FROM items
		WHERE date >= ? AND date <= ?
		GROUP BY date, kind
		ORDER BY date`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var date, kind string
		var count, done int
		if err := rows.Scan(&date, &kind, &count, &done); err != nil {
			return nil, err
		}
		d, err := planner.ParseDateKey(date)
		if err != nil {
			return nil, err
		}
		ds := get(d)
		ds.Items[planner.Kind(kind)] = count
		if planner.Kind(kind) == planner.KindTodo {
			ds.TodosDone = done
			ds.TodosOpen = count - done
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	recs, err := s.db.Query(`
		SELECT date, note, rating FROM day_records
		WHERE date >= ? AND date <= ?
		ORDER BY date`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer recs.Close()

	for recs.Next() {
		var date, note, rating string
		if err := recs.Scan(&date, &note, &rating); err != nil {
			return nil, err
		}
		d, err := planner.ParseDateKey(date)
		if err != nil {
			return nil, err
		}
		ds := get(d)
		ds.Rating = planner.Rating(rating)
		ds.HasNote = note != ""
	}
	if err := recs.Err(); err != nil {
		return nil, err
	}

	out := make([]DailySummary, 0, len(order))
	for _, d := range order {
		out = append(out, *byDate[d])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
