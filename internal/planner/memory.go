package planner

import (
	"fmt"
	"sort"
	"sync"
)

// Coord addresses a slot bucket: a date plus a slot label.
type Coord struct {
	Date DateKey
	Slot string
}

func (c Coord) String() string {
	return c.Date.String() + " " + c.Slot
}

// ItemStore is the state container the rest of the planner mutates.
// Buckets are replaced whole; there are no single-item patches.
type ItemStore interface {
	Items(kind Kind, date DateKey, slot string) ([]Item, error)
	SetItems(kind Kind, date DateKey, slot string, items []Item) error
	MoveItem(kind Kind, from, to Coord, id string) error
	HasContent(date DateKey, slot string) (bool, error)

	DayRecord(date DateKey) (DayRecord, error)
	SetDailyNote(date DateKey, note string) error
	SetRating(date DateKey, rating Rating) error
}

// BucketWrite is the complete new contents of one bucket.
type BucketWrite struct {
	At    Coord
	Items []Item
}

// Persistence receives every mutation before it is applied in memory.
type Persistence interface {
	SaveBucket(kind Kind, date DateKey, slot string, items []Item) error
	// SaveBuckets writes every bucket or none of them.
	SaveBuckets(kind Kind, writes []BucketWrite) error
	SaveDayRecord(date DateKey, rec DayRecord) error
}

// Entry is an item together with where it is stored.
type Entry struct {
	Kind Kind
	Date DateKey
	Slot string
	Item Item
}

// MemoryStore keeps the whole planner in memory and writes through to an
// optional Persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	persist Persistence
	buckets map[Kind]*bucket[Item]
	records map[DateKey]DayRecord
}

var _ ItemStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store. p may be nil.
func NewMemoryStore(p Persistence) *MemoryStore {
	m := &MemoryStore{
		persist: p,
		buckets: make(map[Kind]*bucket[Item], len(Kinds)),
		records: make(map[DateKey]DayRecord),
	}
	for _, k := range Kinds {
		m.buckets[k] = newBucket[Item]()
	}
	return m
}

func (m *MemoryStore) bucketFor(kind Kind) (*bucket[Item], error) {
	b, ok := m.buckets[kind]
	if !ok {
		return nil, invalid("kind", string(kind), "unknown")
	}
	return b, nil
}

func (m *MemoryStore) Items(kind Kind, date DateKey, slot string) ([]Item, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, err := m.bucketFor(kind)
	if err != nil {
		return nil, err
	}
	return b.get(date, slot), nil
}

func (m *MemoryStore) SetItems(kind Kind, date DateKey, slot string, items []Item) error {
	if err := checkDate(date); err != nil {
		return err
	}
	if err := validateItems(kind, items); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.bucketFor(kind)
	if err != nil {
		return err
	}
	if m.persist != nil {
		if err := m.persist.SaveBucket(kind, date, slot, items); err != nil {
			return fmt.Errorf("save bucket: %w", err)
		}
	}
	b.set(date, slot, items)
	return nil
}

func (m *MemoryStore) MoveItem(kind Kind, from, to Coord, id string) error {
	if err := checkDate(from.Date); err != nil {
		return err
	}
	if err := checkDate(to.Date); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.bucketFor(kind)
	if err != nil {
		return err
	}

	src := b.get(from.Date, from.Slot)
	idx := indexOf(src, id)
	if idx < 0 {
		return fmt.Errorf("move %s %s from %s: %w", kind, id, from, ErrNotFound)
	}
	if from == to {
		return nil
	}
	dst := b.get(to.Date, to.Slot)
	if indexOf(dst, id) >= 0 {
		return fmt.Errorf("move %s %s to %s: %w", kind, id, to, ErrDuplicateItem)
	}

	item := src[idx]
	src = append(src[:idx], src[idx+1:]...)
	dst = append(dst, item)

	if m.persist != nil {
		writes := []BucketWrite{{At: to, Items: dst}, {At: from, Items: src}}
		if err := m.persist.SaveBuckets(kind, writes); err != nil {
			return fmt.Errorf("save move: %w", err)
		}
	}
	b.set(to.Date, to.Slot, dst)
	b.set(from.Date, from.Slot, src)
	return nil
}

func (m *MemoryStore) HasContent(date DateKey, slot string) (bool, error) {
	if err := checkDate(date); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.buckets {
		if b.has(date, slot) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) DayRecord(date DateKey) (DayRecord, error) {
	if err := checkDate(date); err != nil {
		return DayRecord{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[date], nil
}

func (m *MemoryStore) SetDailyNote(date DateKey, note string) error {
	return m.updateRecord(date, func(r *DayRecord) { r.Note = note })
}

func (m *MemoryStore) SetRating(date DateKey, rating Rating) error {
	if _, err := ParseRating(string(rating)); err != nil {
		return err
	}
	return m.updateRecord(date, func(r *DayRecord) { r.Rating = rating })
}

func (m *MemoryStore) updateRecord(date DateKey, fn func(*DayRecord)) error {
	if err := checkDate(date); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[date]
	fn(&rec)
	if m.persist != nil {
		if err := m.persist.SaveDayRecord(date, rec); err != nil {
			return fmt.Errorf("save day record: %w", err)
		}
	}
	if rec.IsZero() {
		delete(m.records, date)
	} else {
		m.records[date] = rec
	}
	return nil
}

// Restore loads a bucket without notifying persistence.
func (m *MemoryStore) Restore(kind Kind, date DateKey, slot string, items []Item) error {
	if err := checkDate(date); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.bucketFor(kind)
	if err != nil {
		return err
	}
	b.set(date, slot, items)
	return nil
}

// RestoreRecord loads a day record without notifying persistence.
func (m *MemoryStore) RestoreRecord(date DateKey, rec DayRecord) error {
	if err := checkDate(date); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.IsZero() {
		delete(m.records, date)
		return nil
	}
	m.records[date] = rec
	return nil
}

// Count returns the number of items across all kinds.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, b := range m.buckets {
		n += b.count()
	}
	return n
}

// EventfulDates returns, in ascending order, every date that holds an item
// or a non-empty day record.
func (m *MemoryStore) EventfulDates() ([]DateKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[DateKey]struct{})
	for _, b := range m.buckets {
		for date := range b.dates {
			seen[date] = struct{}{}
		}
	}
	for date := range m.records {
		seen[date] = struct{}{}
	}
	dates := make([]DateKey, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Entries returns every item dated within [from, to], ordered by date,
// slot label, kind and insertion. Zero bounds are open.
func (m *MemoryStore) Entries(from, to DateKey) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Entry
	for _, kind := range Kinds {
		m.buckets[kind].each(func(date DateKey, slot string, items []Item) {
			if !from.IsZero() && date.Before(from) {
				return
			}
			if !to.IsZero() && date.After(to) {
				return
			}
			for _, it := range items {
				out = append(out, Entry{Kind: kind, Date: date, Slot: slot, Item: it})
			}
		})
	}
	SortEntries(out)
	return out
}

// SortEntries orders entries by date, slot label and kind. Items within a
// bucket keep their relative order.
func SortEntries(entries []Entry) {
	rank := make(map[Kind]int, len(Kinds))
	for i, k := range Kinds {
		rank[k] = i
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return rank[a.Kind] < rank[b.Kind]
	})
}

func validateItems(kind Kind, items []Item) error {
	if !kind.Valid() {
		return invalid("kind", string(kind), "unknown")
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			return invalid("item id", "", "missing")
		}
		if it.Kind() != kind {
			return invalid("item", it.ID, fmt.Sprintf("payload is %q, bucket is %q", it.Kind(), kind))
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("item %s: %w", it.ID, ErrDuplicateItem)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
