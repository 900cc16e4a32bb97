package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"
)

// capture routes output to a buffer at the given level and format and
// restores the defaults when the test ends.
func capture(t *testing.T, level Level, format string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := GetLevel()
	SetOutput(&buf)
	SetLevel(level)
	SetFormat(format)
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel(original)
		SetFormat("text")
	})
	return &buf
}

func TestColumnWarningJSON(t *testing.T) {
	buf := capture(t, LevelInfo, "JSON")

	Warn("Column %s: %v", "price", "counting distinct values: no such table")

	var entry jsonEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid JSON line %q: %v", buf.String(), err)
	}
	if entry.Level != "warn" {
		t.Errorf("level = %q, want warn", entry.Level)
	}
	if entry.Msg != "Column price: counting distinct values: no such table" {
		t.Errorf("msg = %q", entry.Msg)
	}
	if _, err := time.Parse(time.RFC3339Nano, entry.TS); err != nil {
		t.Errorf("ts %q is not RFC3339: %v", entry.TS, err)
	}
}

func TestProfilingMessageText(t *testing.T) {
	buf := capture(t, LevelInfo, "text")

	Info("Profiling %d columns of %s", 4, "data.csv")

	line := strings.TrimSpace(buf.String())
	if !strings.HasSuffix(line, "[INFO] Profiling 4 columns of data.csv") {
		t.Errorf("unexpected line %q", line)
	}
	if _, err := time.Parse("2006-01-02 15:04:05", line[:19]); err != nil {
		t.Errorf("line %q lacks a timestamp prefix: %v", line, err)
	}
}

func TestUnknownFormatFallsBackToText(t *testing.T) {
	buf := capture(t, LevelInfo, "yaml")

	Error("history unavailable")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "[ERROR] history unavailable") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestSetOutputNilRestoresStderr(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetOutput(nil)

	std.mu.Lock()
	out := std.out
	std.mu.Unlock()
	if out != os.Stderr {
		t.Errorf("output after SetOutput(nil) = %v, want os.Stderr", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"Warning", LevelWarn, false},
		{"error", LevelError, false},
		{"", LevelInfo, true},
		{"trace", LevelInfo, true},
		{" info", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelStringRoundTrip(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", l.String(), got, err, l)
		}
	}
	if s := Level(99).String(); s != "UNKNOWN" {
		t.Errorf("Level(99).String() = %q, want UNKNOWN", s)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, LevelWarn, "text")

	Debug("column %s skipped", "a")
	Info("profiling %d columns", 3)
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
	if IsDebug() {
		t.Error("IsDebug() = true at warn level")
	}

	Warn("column %s failed: %v", "b", "boom")
	if !strings.Contains(buf.String(), "[WARN] column b failed: boom") {
		t.Errorf("unexpected warn output: %q", buf.String())
	}

	SetLevel(LevelDebug)
	if !IsDebug() {
		t.Error("IsDebug() = false at debug level")
	}
}

func TestMessageWithoutArgsIsNotFormatted(t *testing.T) {
	buf := capture(t, LevelInfo, "text")

	info := Info
	info("100% of rows scanned")
	if !strings.Contains(buf.String(), "100% of rows scanned") {
		t.Errorf("message was altered: %q", buf.String())
	}
}
