package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"info":    zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q): got %v want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewDebugEnablesV1(t *testing.T) {
	logger, err := New("debug")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if !logger.V(1).Enabled() {
		t.Fatalf("expected V(1) to be enabled at debug level")
	}

	logger, err = New("info")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if logger.V(1).Enabled() {
		t.Fatalf("expected V(1) to be disabled at info level")
	}
}
