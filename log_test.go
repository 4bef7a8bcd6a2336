package touchframe

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("container registered", "id", 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "container registered" || rec["component"] != "touchframe" {
		t.Errorf("record = %v", rec)
	}
	if ts, _ := rec["time"].(string); !strings.HasSuffix(ts, "Z") {
		t.Errorf("time = %v, want RFC3339 UTC", rec["time"])
	}

	buf.Reset()
	logger, err = NewLogger(LogConfig{Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("engine closed")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record logged at the default info level")
	}
	if !strings.Contains(out, "msg=\"engine closed\"") {
		t.Errorf("text output = %q", out)
	}
}

func TestNewLoggerErrors(t *testing.T) {
	tests := []LogConfig{
		{Level: "verbose"},
		{Format: "xml"},
	}
	for _, cfg := range tests {
		if _, err := NewLogger(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewLogger(%+v) err = %v, want ErrInvalidConfig", cfg, err)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"":        "INFO",
		"info":    "INFO",
		" DEBUG ": "DEBUG",
		"warning": "WARN",
		"warn":    "WARN",
		"error":   "ERROR",
	}
	for in, want := range tests {
		lvl, err := parseLevel(in)
		if err != nil {
			t.Errorf("parseLevel(%q): %v", in, err)
			continue
		}
		if got := lvl.Level().String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
