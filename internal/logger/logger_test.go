package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want *zapcore.Level
	}{
		{"debug", ptr(zapcore.DebugLevel)},
		{" WARN ", ptr(zapcore.WarnLevel)},
		{"error", ptr(zapcore.ErrorLevel)},
		{"verbose", nil},
	}
	for _, tt := range tests {
		got := parseLevel(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("parseLevel(%q) = %v, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, *tt.want)
		}
	}
}

func ptr(l zapcore.Level) *zapcore.Level { return &l }

func TestNamedKeepsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := fromZap(zap.New(core)).Named("syncer")

	log.Debug("dropped")
	log.Info("drained", Int("saved", 2), Strings("folders", []string{"a"}))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "syncer" || e.Message != "drained" {
		t.Errorf("entry = %q %q", e.LoggerName, e.Message)
	}
	if got := e.ContextMap()["saved"]; got != int64(2) {
		t.Errorf("saved field = %v", got)
	}
}
