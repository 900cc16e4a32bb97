// Package logging provides a small leveled logger shared by every package.
// Output is either human-readable text or one JSON object per line.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (case-insensitive) to a Level.
// "warning" is accepted as an alias for "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", s)
}

type logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	format string
}

var std = &logger{
	out:    os.Stderr,
	level:  LevelInfo,
	format: "text",
}

// SetOutput redirects log output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	std.out = w
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = l
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

// SetFormat selects "json" or "text" output. Anything else falls back to text.
func SetFormat(format string) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if strings.EqualFold(format, "json") {
		std.format = "json"
		return
	}
	std.format = "text"
}

// IsDebug reports whether debug messages are currently written.
func IsDebug() bool {
	return GetLevel() <= LevelDebug
}

func Debug(format string, args ...interface{}) { std.log(LevelDebug, format, args...) }
func Info(format string, args ...interface{})  { std.log(LevelInfo, format, args...) }
func Warn(format string, args ...interface{})  { std.log(LevelWarn, format, args...) }
func Error(format string, args ...interface{}) { std.log(LevelError, format, args...) }

type jsonEntry struct {
	TS    string `json:"ts"`
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func (l *logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	now := time.Now()

	if l.format == "json" {
		b, err := json.Marshal(jsonEntry{
			TS:    now.UTC().Format(time.RFC3339Nano),
			Level: strings.ToLower(level.String()),
			Msg:   msg,
		})
		if err != nil {
			return
		}
		l.out.Write(append(b, '\n'))
		return
	}

	fmt.Fprintf(l.out, "%s [%s] %s\n", now.Format("2006-01-02 15:04:05"), level, msg)
}
