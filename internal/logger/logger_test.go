package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_DefaultsToInfoLevel(t *testing.T) {
	log := New()

	if log == nil {
		t.Fatal("expected logger to be created")
	}
	if log.GetLevel() != slog.LevelInfo {
		t.Errorf("expected default level to be Info, got %v", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
}

func TestSlogLogger_LogMethods(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelDebug, Writer: &buf})

	tests := []struct {
		name  string
		fn    func(string, ...any)
		level string
	}{
		{"Debug", log.Debug, "DEBUG"},
		{"Info", log.Info, "INFO"},
		{"Warn", log.Warn, "WARN"},
		{"Error", log.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("race started", "room_id", "r1")

			output := buf.String()
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected output to contain %q, got: %s", tt.level, output)
			}
			if !strings.Contains(output, "race started") {
				t.Errorf("expected output to contain message, got: %s", output)
			}
			if !strings.Contains(output, "room_id=r1") {
				t.Errorf("expected output to contain room_id=r1, got: %s", output)
			}
		})
	}
}

func TestSlogLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Info("payout", "points", 150)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "payout" {
		t.Errorf("expected msg=payout, got %v", record["msg"])
	}
	if record["points"] != float64(150) {
		t.Errorf("expected points=150, got %v", record["points"])
	}
}

func TestSlogLogger_With_SharesLevelAndHTTPSwitch(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithOptions(Options{Level: slog.LevelWarn, Writer: &buf})
	child := parent.With("room_id", "abc")

	child.Info("filtered")
	if buf.Len() > 0 {
		t.Fatalf("expected info to be filtered at WARN, got %s", buf.String())
	}

	parent.SetLevel(slog.LevelInfo)
	child.Info("room created")
	if !strings.Contains(buf.String(), "room_id=abc") {
		t.Errorf("expected child attrs in output, got %s", buf.String())
	}

	parent.EnableHTTPLogging()
	if !child.IsHTTPLoggingEnabled() {
		t.Error("expected child to see HTTP logging switch")
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: slog.LevelWarn, Writer: &buf})

	log.Debug("debug message")
	log.Info("info message")
	if buf.Len() > 0 {
		t.Errorf("expected debug/info to be filtered at WARN level, got: %s", buf.String())
	}

	log.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("expected warn message to be logged")
	}
}

func TestSlogLogger_SetLevel(t *testing.T) {
	log := NewWithLevel(slog.LevelError)
	if log.GetLevel() != slog.LevelError {
		t.Errorf("expected level to be Error, got %v", log.GetLevel())
	}

	log.SetLevel(slog.LevelDebug)
	if log.GetLevel() != slog.LevelDebug {
		t.Errorf("expected level to be Debug, got %v", log.GetLevel())
	}
}

func TestSlogLogger_HTTPLogging(t *testing.T) {
	log := New()

	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled by default")
	}
	log.EnableHTTPLogging()
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be enabled")
	}
	log.DisableHTTPLogging()
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled")
	}
}
