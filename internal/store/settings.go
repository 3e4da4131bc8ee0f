package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/dayplan/internal/planner"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Policy reads the past-slot policy from settings. Missing or malformed
// values fall back to planner.DefaultPolicy.
func (s *Store) Policy() planner.Policy {
	p := planner.DefaultPolicy
	if v, err := s.GetSetting(KeyRescuePastTodos); err == nil {
		if b, err := strconv.ParseBool(v); err == nil {
			p.RescuePastTodos = b
		}
	}
	if v, err := s.GetSetting(KeyCompleteLateTodos); err == nil {
		if b, err := strconv.ParseBool(v); err == nil {
			p.CompleteLateTodos = b
		}
	}
	return p
}

func (s *Store) SetPolicy(p planner.Policy) error {
	if err := s.SetSetting(KeyRescuePastTodos, strconv.FormatBool(p.RescuePastTodos)); err != nil {
		return err
	}
	return s.SetSetting(KeyCompleteLateTodos, strconv.FormatBool(p.CompleteLateTodos))
}

// WeekStart returns the configured first day of the week, Monday unless
// set to sunday.
func (s *Store) WeekStart() time.Weekday {
	v, _ := s.GetSetting(KeyWeekStart)
	if strings.EqualFold(v, "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// DefaultKind returns the kind preselected in the add form.
func (s *Store) DefaultKind() planner.Kind {
	v, _ := s.GetSetting(KeyDefaultKind)
	k, err := planner.ParseKind(v)
	if err != nil {
		return planner.KindTodo
	}
	return k
}
