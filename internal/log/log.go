// Package log is the process-wide leveled logger. It keeps a small call
// surface (message plus key/value pairs) over charmbracelet/log.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Options configures the global logger.
type Options struct {
	Level  Level
	Output io.Writer
}

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, charmlog.InfoLevel)
)

func newLogger(w io.Writer, lvl charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           lvl,
		Prefix:          "dayplan",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
}

// ParseLevel accepts debug, info, warn and error in any case. An empty
// string means info.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LevelInfo, nil
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "warning":
		return LevelWarn, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

// Setup replaces the global logger. A nil Output discards everything.
func Setup(opts Options) error {
	lvl, err := ParseLevel(string(opts.Level))
	if err != nil {
		return err
	}
	cl, err := charmlog.ParseLevel(string(lvl))
	if err != nil {
		return err
	}
	w := opts.Output
	if w == nil {
		w = io.Discard
	}
	mu.Lock()
	logger = newLogger(w, cl)
	mu.Unlock()
	return nil
}

// OpenFile opens path for appending log lines.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func current() *charmlog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, kv ...any) {
	current().Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	current().Info(msg, kv...)
}

func Warn(msg string, kv ...any) {
	current().Warn(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	current().Error(msg, append([]any{"err", err}, kv...)...)
}
