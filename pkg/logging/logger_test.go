package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input LogLevel
		want  zerolog.Level
	}{
		{"debug", LevelDebug, zerolog.DebugLevel},
		{"info", LevelInfo, zerolog.InfoLevel},
		{"warn", LevelWarn, zerolog.WarnLevel},
		{"warning alias", LogLevel("warning"), zerolog.WarnLevel},
		{"error", LevelError, zerolog.ErrorLevel},
		{"unknown falls back to info", LogLevel("verbose"), zerolog.InfoLevel},
		{"mixed case", LogLevel("DEBUG"), zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetupJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: LevelInfo, Output: &buf})

	logger.Info().Str("endpoint", "/appreviews").Msg("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if entry["message"] != "test message" {
		t.Errorf("message = %v, want %q", entry["message"], "test message")
	}
	if entry["endpoint"] != "/appreviews" {
		t.Errorf("endpoint = %v, want %q", entry["endpoint"], "/appreviews")
	}
	if _, ok := entry["time"]; !ok {
		t.Error("Expected timestamp field in output")
	}
}

func TestSetupLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: LevelWarn, Output: &buf})

	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("Expected debug/info filtered out, got: %s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("Expected warn message in output, got: %s", out)
	}
}

func TestNewLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	Setup(Config{Level: LevelDebug, Output: &buf})

	logger := NewLogger("cursor")
	logger.Info().Msg("paging")

	if !strings.Contains(buf.String(), `"component":"cursor"`) {
		t.Errorf("Expected component field, got: %s", buf.String())
	}
}
