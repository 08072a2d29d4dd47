package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/apex/log"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", "json", &buf)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	logger.WithField("request_id", "abc").Info("handled request")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "handled request" {
		t.Errorf("message = %v", entry["message"])
	}
	fields, _ := entry["fields"].(map[string]any)
	if fields["request_id"] != "abc" {
		t.Errorf("fields = %v", entry["fields"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", "text", &buf)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info entry written at warn level: %q", buf.String())
	}

	logger.Warn("shown")
	if buf.Len() == 0 {
		t.Error("warn entry not written")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"bad level", "loud", "cli"},
		{"bad format", "info", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.level, tt.format, &bytes.Buffer{}); err == nil {
				t.Error("New() expected error, got nil")
			}
		})
	}
}

func TestNew_DefaultLevel(t *testing.T) {
	logger, err := New("", "", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if logger.Level != log.InfoLevel {
		t.Errorf("Level = %v, want info", logger.Level)
	}
}
