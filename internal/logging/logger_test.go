package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger = NewComponentLogger(logger, "matcher")
	logger.Info("matched license", Args(String(FieldLicense, "MIT"), Float64(FieldScore, 0.97))...)

	out := buf.String()
	for _, want := range []string{"INFO", "[matcher]", "matched license", "license=MIT", "score=0.97"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q: %q", want, out)
		}
	}
}

func TestNewConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn record suppressed")
	}
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("scan finished", Args(Int("files", 3))...)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "scan finished" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Errorf("level = %v", record["level"])
	}
	if record["files"] != float64(3) {
		t.Errorf("files = %v", record["files"])
	}
}

func TestNewUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Error("New accepted unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger claims to be enabled")
	}
}

func TestErrorAttr(t *testing.T) {
	attr := Error(errors.New("boom"))
	if attr.Key != "error" {
		t.Errorf("Error attr key = %q", attr.Key)
	}
	if Error(nil).Value.String() != "<nil>" {
		t.Error("Error(nil) did not render <nil>")
	}
}
