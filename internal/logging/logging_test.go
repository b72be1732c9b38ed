package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestResolveLevelPrecedence(t *testing.T) {
	t.Setenv(LevelEnv, "")
	if got := ResolveLevel("", ""); got != DefaultLevel {
		t.Fatalf("expected default level, got %q", got)
	}
	t.Setenv(LevelEnv, "ERROR")
	if got := ResolveLevel("", ""); got != "error" {
		t.Fatalf("expected env level, got %q", got)
	}
	if got := ResolveLevel("", "info"); got != "info" {
		t.Fatalf("expected config level, got %q", got)
	}
	if got := ResolveLevel("Debug", "info"); got != "debug" {
		t.Fatalf("expected flag level, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":    log.DebugLevel,
		"INFO":     log.InfoLevel,
		"warning":  log.WarnLevel,
		"error":    log.ErrorLevel,
		"critical": log.FatalLevel,
		"bogus":    log.WarnLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "tool", "ListFISExperiments")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "ListFISExperiments") {
		t.Fatalf("expected warn message, got %q", out)
	}
}
