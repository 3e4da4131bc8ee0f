package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sadopc/dayplan/internal/log"
	"github.com/sadopc/dayplan/internal/planner"
)

var _ planner.Persistence = (*Store)(nil)

// SaveBucket replaces the stored contents of one (kind, date, slot) bucket.
// An empty list deletes the bucket.
func (s *Store) SaveBucket(kind planner.Kind, date planner.DateKey, slot string, items []planner.Item) error {
	at := planner.Coord{Date: date, Slot: slot}
	if err := s.SaveBuckets(kind, []planner.BucketWrite{{At: at, Items: items}}); err != nil {
		return fmt.Errorf("save bucket: %w", err)
	}
	return nil
}

// SaveBuckets replaces several buckets of one kind in a single transaction,
// so a move never leaves an item in both places. created_at follows an
// item to whichever of the buckets it lands in.
func (s *Store) SaveBuckets(kind planner.Kind, writes []planner.BucketWrite) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	created := make(map[string]string)
	for _, w := range writes {
		if err := collectCreated(tx, kind, w.At, created); err != nil {
			return err
		}
	}

	for _, w := range writes {
		if _, err := tx.Exec(
			`DELETE FROM items WHERE kind = ? AND date = ? AND slot = ?`,
			string(kind), w.At.Date.String(), w.At.Slot,
		); err != nil {
			return fmt.Errorf("clear %s: %w", w.At, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, w := range writes {
		for i, it := range w.Items {
			meta, err := json.Marshal(it.Meta)
			if err != nil {
				return fmt.Errorf("encode %s %s: %w", kind, it.ID, err)
			}
			at, ok := created[it.ID]
			if !ok {
				at = now
			}
			if _, err := tx.Exec(
				`INSERT INTO items (kind, date, slot, id, position, text, meta, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				string(kind), w.At.Date.String(), w.At.Slot, it.ID, i, it.Text, string(meta), at, now,
			); err != nil {
				return fmt.Errorf("write %s: %w", w.At, err)
			}
		}
	}
	return tx.Commit()
}

func collectCreated(tx *sql.Tx, kind planner.Kind, at planner.Coord, created map[string]string) error {
	rows, err := tx.Query(
		`SELECT id, created_at FROM items WHERE kind = ? AND date = ? AND slot = ?`,
		string(kind), at.Date.String(), at.Slot,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id, ts string
		if err := rows.Scan(&id, &ts); err != nil {
			return err
		}
		created[id] = ts
	}
	return rows.Err()
}

// ListItems returns stored items ordered by date, slot, kind and position.
func (s *Store) ListItems(f ItemFilter) ([]planner.Entry, error) {
	query := `SELECT kind, date, slot, id, text, meta FROM items WHERE 1=1`
	var args []any

	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	if !f.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, f.To.String())
	}
	query += ` ORDER BY date, slot, kind, position`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var entries []planner.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// SQL orders kinds alphabetically; the planner has its own kind order.
	planner.SortEntries(entries)
	if f.Limit > 0 && len(entries) > f.Limit {
		entries = entries[:f.Limit]
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (planner.Entry, error) {
	var kind, date, slot, id, text, meta string
	if err := rows.Scan(&kind, &date, &slot, &id, &text, &meta); err != nil {
		return planner.Entry{}, err
	}
	k, err := planner.ParseKind(kind)
	if err != nil {
		return planner.Entry{}, err
	}
	d, err := planner.ParseDateKey(date)
	if err != nil {
		return planner.Entry{}, err
	}
	m, err := planner.DecodeMeta(k, []byte(meta))
	if err != nil {
		return planner.Entry{}, err
	}
	return planner.Entry{
		Kind: k,
		Date: d,
		Slot: slot,
		Item: planner.Item{ID: id, Text: text, Meta: m},
	}, nil
}

// EventfulDates returns every date with at least one item or a non-empty
// day record, ascending.
func (s *Store) EventfulDates() ([]planner.DateKey, error) {
	rows, err := s.db.Query(`
		SELECT date FROM items
		UNION
		SELECT date FROM day_records WHERE note != '' OR rating != ''
		ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("eventful dates: %w", err)
	}
	defer rows.Close()

	var dates []planner.DateKey
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := planner.ParseDateKey(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// Hydrate loads every stored bucket and day record into m without writing
// anything back.
func (s *Store) Hydrate(m *planner.MemoryStore) error {
	entries, err := s.ListItems(ItemFilter{})
	if err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}
	type key struct {
		kind planner.Kind
		date planner.DateKey
		slot string
	}
	buckets := make(map[key][]planner.Item)
	var order []key
	for _, e := range entries {
		k := key{e.Kind, e.Date, e.Slot}
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], e.Item)
	}
	for _, k := range order {
		if err := m.Restore(k.kind, k.date, k.slot, buckets[k]); err != nil {
			return fmt.Errorf("hydrate: %w", err)
		}
	}

	records, err := s.ListDayRecords()
	if err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}
	for date, rec := range records {
		if err := m.RestoreRecord(date, rec); err != nil {
			return fmt.Errorf("hydrate: %w", err)
		}
	}
	log.Debug("hydrated planner", "items", len(entries), "records", len(records))
	return nil
}

// LoadPlanner returns a memory store filled from the database that writes
// back through s.
func (s *Store) LoadPlanner() (*planner.MemoryStore, error) {
	m := planner.NewMemoryStore(s)
	if err := s.Hydrate(m); err != nil {
		return nil, err
	}
	return m, nil
}
