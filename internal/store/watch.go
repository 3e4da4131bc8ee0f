package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sadopc/dayplan/internal/log"
)

// Event reports that the database changed on disk, usually because another
// process (the CLI or the MCP server) wrote to it.
type Event struct {
	Path string
}

const watchDelay = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. Bursts of writes are
// coalesced into one event. The channel is closed once ctx is done or the
// watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	if s.path == "" || s.path == memoryPath {
		return nil, errors.New("store: in-memory database cannot be watched")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	// Watch the directory: SQLite replaces the -wal and -journal files.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	base := filepath.Base(s.path)
	events := make(chan Event, 8)

	go func() {
		defer close(events)
		defer watcher.Close()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// A reload is already pending.
			}
		}
		throttle := newThrottle(watchDelay, send)
		defer throttle.stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("database watcher error", "err", err)
				throttle.enqueue(s.path)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isDatabaseFile(base, filepath.Base(evt.Name)) {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				throttle.enqueue(s.path)
			}
		}
	}()

	return events, nil
}

// Changed reports whether another connection has committed to the database
// since the previous call. Commits made through s do not count, which lets
// a watcher ignore the echo of its own writes.
func (s *Store) Changed() (bool, error) {
	v, err := s.dataVersion()
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := v != s.seen
	s.seen = v
	return changed, nil
}

func (s *Store) dataVersion() (int64, error) {
	var v int64
	if err := s.db.QueryRow("PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("data_version: %w", err)
	}
	return v, nil
}

// isDatabaseFile matches the database and the files SQLite writes beside it.
// The shared-memory index changes on reads as well and is ignored.
func isDatabaseFile(base, name string) bool {
	if name == base {
		return true
	}
	suffix, ok := strings.CutPrefix(name, base)
	return ok && (suffix == "-wal" || suffix == "-journal")
}

// throttle delays delivery so one burst of writes produces one event.
type throttle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending string
	stopped bool
	delay   time.Duration
	send    func(Event)
}

func newThrottle(delay time.Duration, send func(Event)) *throttle {
	return &throttle{delay: delay, send: send}
}

func (t *throttle) enqueue(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = path
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
}

// flush sends while holding the lock so stop can guarantee no send
// happens after it returns.
func (t *throttle) flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	path := t.pending
	t.pending = ""
	t.timer = nil
	if path != "" && !t.stopped {
		t.send(Event{Path: path})
	}
}

func (t *throttle) stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
