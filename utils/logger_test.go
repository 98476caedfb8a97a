package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelsRouteToWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut)

	l.Info("loaded %d rows", 10)
	l.Warn("dropped %s", "notes")
	l.Error("boom")

	if !strings.Contains(out.String(), "loaded 10 rows") {
		t.Errorf("info line missing from stdout: %q", out.String())
	}
	if !strings.Contains(out.String(), "dropped notes") {
		t.Errorf("warn line missing from stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "boom") {
		t.Errorf("error line missing from stderr: %q", errOut.String())
	}
	if strings.Contains(out.String(), "boom") {
		t.Error("error line should not be written to stdout")
	}
}

func TestLoggerDebugNeedsVerbose(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo(&out, &out)

	l.Debug("hidden")
	if out.Len() != 0 {
		t.Fatalf("debug output without verbose: %q", out.String())
	}

	l.SetVerbose(true)
	l.Debug("shown %d", 1)
	if !strings.Contains(out.String(), "shown 1") {
		t.Errorf("debug line missing with verbose on: %q", out.String())
	}
}
