package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var event map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("Failed to decode log line %q: %v", buf.String(), err)
	}
	return event
}

func TestZerologAdapterFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.DebugLevel)

	log.Debug(Event{
		Stage:       StageFilter,
		Message:     "channels selected",
		Rows:        8,
		Cols:        6,
		Channels:    12,
		R2:          0.95,
		Frequencies: []float64{0.25, 0.5},
		Elapsed:     1500 * time.Millisecond,
	})

	event := decode(t, &buf)
	want := map[string]interface{}{
		"stage":    "filter",
		"message":  "channels selected",
		"rows":     float64(8),
		"cols":     float64(6),
		"channels": float64(12),
		"r2":       0.95,
	}
	for k, v := range want {
		if event[k] != v {
			t.Errorf("Expected %s=%v, got %v", k, v, event[k])
		}
	}
	if freqs, ok := event["frequencies"].([]interface{}); !ok || len(freqs) != 2 {
		t.Errorf("Expected two frequencies, got %v", event["frequencies"])
	}
	if _, ok := event["elapsed"]; !ok {
		t.Error("Expected an elapsed field")
	}
}

func TestZerologAdapterOmitsZeroFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.DebugLevel)

	log.Info(Event{Stage: StageWrite, Message: "label map saved", Path: "out.png"})

	event := decode(t, &buf)
	for _, key := range []string{"rows", "cols", "kernels", "channels", "classes", "r2", "frequencies", "elapsed", "format"} {
		if _, ok := event[key]; ok {
			t.Errorf("Expected %s to be omitted, got %v", key, event[key])
		}
	}
	if event["path"] != "out.png" || event["stage"] != "write" {
		t.Errorf("Unexpected event: %v", event)
	}
}

func TestZerologAdapterLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.WarnLevel)

	log.Debug(Event{Stage: StageBank, Message: "hidden"})
	log.Info(Event{Stage: StageBank, Message: "hidden"})
	if buf.Len() != 0 {
		t.Fatalf("Expected debug and info to be filtered, got %q", buf.String())
	}

	log.Error(Event{Stage: StageCluster}, errors.New("boom"))
	event := decode(t, &buf)
	if event["error"] != "boom" || event["level"] != "error" {
		t.Errorf("Unexpected error event: %v", event)
	}
	if event["message"] != "cluster failed" {
		t.Errorf("Expected a default message, got %v", event["message"])
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel(""); err != nil || lvl != zerolog.InfoLevel {
		t.Errorf("Empty level should default to info, got %v, %v", lvl, err)
	}
	if lvl, err := ParseLevel("debug"); err != nil || lvl != zerolog.DebugLevel {
		t.Errorf("Expected debug, got %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}
