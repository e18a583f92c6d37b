package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/catalogus/catalogus-backend/internal/config"
)

func TestNewLogger_SetsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "info", Format: "json"})

	if slog.Default().Handler() != logger.Handler() {
		t.Error("NewLogger should set the returned logger as slog default")
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "info", Format: "json"})

	logger.Info("entry added", slog.String("external_id", "597"))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("JSON handler should produce valid JSON: %v", err)
	}
	if m["msg"] != "entry added" {
		t.Errorf("msg = %v", m["msg"])
	}
	if m["external_id"] != "597" {
		t.Errorf("external_id = %v", m["external_id"])
	}
	if _, ok := m["source"]; ok {
		t.Error("json format should not include source")
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "debug", Format: "text"})

	logger.Debug("provider fetch", slog.String("provider", "TMDB"))

	out := buf.String()
	if !strings.Contains(out, "provider fetch") {
		t.Errorf("text output missing message: %q", out)
	}
	if !strings.Contains(out, "TMDB") {
		t.Errorf("text output missing attribute: %q", out)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		wantSlog slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, format := range []string{"json", "text"} {
		for _, tt := range tests {
			t.Run(format+"_level_"+tt.level, func(t *testing.T) {
				var buf bytes.Buffer
				logger := newLogger(&buf, config.LogConfig{Level: tt.level, Format: format})

				logger.Log(context.TODO(), tt.wantSlog, "should appear")
				if buf.Len() == 0 {
					t.Errorf("expected log output at level %v", tt.wantSlog)
				}

				buf.Reset()
				belowLevel := tt.wantSlog - 1
				logger.Log(context.TODO(), belowLevel, "should be suppressed")
				if buf.Len() != 0 {
					t.Errorf("level %v should suppress level %v, but got output: %s",
						tt.wantSlog, belowLevel, buf.String())
				}
			})
		}
	}
}
