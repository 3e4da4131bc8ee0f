package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/dayplan/internal/planner"
)

// SaveDayRecord upserts the record for date, or deletes it when empty.
func (s *Store) SaveDayRecord(date planner.DateKey, rec planner.DayRecord) error {
	if rec.IsZero() {
		if _, err := s.db.Exec(`DELETE FROM day_records WHERE date = ?`, date.String()); err != nil {
			return fmt.Errorf("delete day record %s: %w", date, err)
		}
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO day_records (date, note, rating, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET note = excluded.note, rating = excluded.rating, updated_at = excluded.updated_at`,
		date.String(), rec.Note, string(rec.Rating), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save day record %s: %w", date, err)
	}
	return nil
}

// GetDayRecord returns the stored record for date. A date without a record
// yields the zero record.
func (s *Store) GetDayRecord(date planner.DateKey) (planner.DayRecord, error) {
	var note, rating string
	err := s.db.QueryRow(`SELECT note, rating FROM day_records WHERE date = ?`, date.String()).Scan(&note, &rating)
	if err == sql.ErrNoRows {
		return planner.DayRecord{}, nil
	}
	if err != nil {
		return planner.DayRecord{}, fmt.Errorf("get day record %s: %w", date, err)
	}
	r, err := planner.ParseRating(rating)
	if err != nil {
		return planner.DayRecord{}, err
	}
	return planner.DayRecord{Note: note, Rating: r}, nil
}

func (s *Store) ListDayRecords() (map[planner.DateKey]planner.DayRecord, error) {
	rows, err := s.db.Query(`SELECT date, note, rating FROM day_records ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list day records: %w", err)
	}
	defer rows.Close()

	out := make(map[planner.DateKey]planner.DayRecord)
	for rows.Next() {
		var date, note, rating string
		if err := rows.Scan(&date, &note, &rating); err != nil {
			return nil, err
		}
		d, err := planner.ParseDateKey(date)
		if err != nil {
			return nil, err
		}
		r, err := planner.ParseRating(rating)
		if err != nil {
			return nil, err
		}
		out[d] = planner.DayRecord{Note: note, Rating: r}
	}
	return out, rows.Err()
}
