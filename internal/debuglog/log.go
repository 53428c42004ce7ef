// Package debuglog is a small leveled logger that writes to a file. It is
// off by default so nothing reaches the terminal while the UI owns it.
package debuglog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var levelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelOff:   "OFF",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLogLevel maps a config value to a level. Empty means off; anything
// unrecognized falls back to info.
func ParseLogLevel(s string) LogLevel {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "":
		return LevelOff
	case "WARNING":
		return LevelWarn
	}
	for level, name := range levelNames {
		if name == s {
			return level
		}
	}
	return LevelInfo
}

var (
	mu     sync.Mutex
	level  = LevelOff
	out    *log.Logger
	closer io.Closer
)

// Setup sets the level and opens the log file, appending. Without a path
// the file goes to ~/.stargaze/stargaze.log.
func Setup(l LogLevel, filePath ...string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	level = l
	if l == LevelOff {
		return nil
	}

	path := ""
	if len(filePath) > 0 {
		path = filePath[0]
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, ".stargaze", "stargaze.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	closer = f
	out = newLogger(f)
	return nil
}

// SetOutput sends log lines to w at the given level. Close does not close w.
func SetOutput(l LogLevel, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	level = l
	if w != nil && l != LevelOff {
		out = newLogger(w)
	}
}

func SetLevel(l LogLevel) {
	mu.Lock()
	level = l
	mu.Unlock()
}

func GetLevel() LogLevel {
	mu.Lock()
	defer mu.Unlock()
	return level
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	out = nil
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "stargaze ", log.LstdFlags|log.Lmicroseconds)
}

func write(l LogLevel, suffix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil || l < level {
		return
	}
	out.Printf("[%s] %s%s", l, fmt.Sprintf(format, args...), suffix)
}

func Debugf(format string, args ...any) { write(LevelDebug, "", format, args...) }
func Infof(format string, args ...any)  { write(LevelInfo, "", format, args...) }
func Warnf(format string, args ...any)  { write(LevelWarn, "", format, args...) }
func Errorf(format string, args ...any) { write(LevelError, "", format, args...) }

// Fields are key/value pairs appended to a line as " [k=v ...]", sorted by key.
type Fields map[string]any

type Entry struct {
	fields Fields
}

func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

// With returns a copy of the entry with one more field.
func (e *Entry) With(key string, value any) *Entry {
	fields := make(Fields, len(e.fields)+1)
	for k, v := range e.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Entry{fields: fields}
}

func (e *Entry) suffix() string {
	if len(e.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(" [")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, e.fields[k])
	}
	b.WriteByte(']')
	return b.String()
}

func (e *Entry) Debugf(format string, args ...any) { write(LevelDebug, e.suffix(), format, args...) }
func (e *Entry) Infof(format string, args ...any)  { write(LevelInfo, e.suffix(), format, args...) }
func (e *Entry) Warnf(format string, args ...any)  { write(LevelWarn, e.suffix(), format, args...) }
func (e *Entry) Errorf(format string, args ...any) { write(LevelError, e.suffix(), format, args...) }
