package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", &buf)

	l.Info("storage write failed", "key", "settings", "error", errors.New("disk full"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["component"] != "test" {
		t.Errorf("component = %v, want test", entry["component"])
	}
	if entry["key"] != "settings" {
		t.Errorf("key = %v, want settings", entry["key"])
	}
	if entry["error"] != "disk full" {
		t.Errorf("error = %v, want disk full", entry["error"])
	}
	if entry["message"] != "storage write failed" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestWithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("test", &buf).With("user_id", "u-1")

	l.Warn("record skipped")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["user_id"] != "u-1" {
		t.Errorf("user_id = %v, want u-1", entry["user_id"])
	}
}

func TestNopDiscards(t *testing.T) {
	// Must not panic and must not write anywhere.
	Nop().Error("ignored", "k", "v")
}
