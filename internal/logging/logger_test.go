package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"mixed case Trace", "Trace", LevelTrace},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAtTrace bool
		logAtDebug bool
		logAtInfo  bool
	}{
		{"info filters debug", "info", false, false, true},
		{"debug passes debug", "debug", false, true, true},
		{"trace passes everything", "trace", true, true, true},
		{"warn filters info", "warn", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Log(context.Background(), LevelTrace, "trace message")
			logger.Debug("debug message")
			logger.Info("info message")

			out := buf.String()
			if got := strings.Contains(out, "trace message"); got != tt.logAtTrace {
				t.Errorf("trace logged = %v, want %v", got, tt.logAtTrace)
			}
			if got := strings.Contains(out, "debug message"); got != tt.logAtDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.logAtDebug)
			}
			if got := strings.Contains(out, "info message"); got != tt.logAtInfo {
				t.Errorf("info logged = %v, want %v", got, tt.logAtInfo)
			}
		})
	}
}

func TestNewLogger_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)
	logger.Log(context.Background(), LevelTrace, "shot detail")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected level=TRACE in output, got %q", buf.String())
	}
}

func TestForRun(t *testing.T) {
	var buf bytes.Buffer
	logger := ForRun(NewLogger("info", &buf), "abc-123", "rotation")
	logger.Info("started")

	out := buf.String()
	for _, want := range []string{"run_id=abc-123", "family=rotation"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger should not be enabled at any level")
	}
}
