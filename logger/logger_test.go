package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{input: "debug", want: DEBUG},
		{input: " INFO ", want: INFO},
		{input: "warning", want: WARN},
		{input: "error", want: ERROR},
		{input: "verbose", want: INFO, wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseLogLevel(tc.input)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Cleanup(func() { SetLogLevel(INFO) })

	var buf bytes.Buffer
	SetLogLevel(WARN)
	SetOutput(&buf)

	Info("hidden message")
	Warn("shown message", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Fatalf("expected info line to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown message") || !strings.Contains(out, "key=value") {
		t.Fatalf("expected warn line with attributes, got %q", out)
	}
}

func TestConfigureReportsBadLevelButKeepsFile(t *testing.T) {
	t.Cleanup(func() {
		SetLogLevel(INFO)
		_ = Configure(Options{Level: "info"})
	})

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	err := Configure(Options{Level: "loud", File: path})
	if err == nil {
		t.Fatalf("expected error for invalid level")
	}
	if currentLevel != INFO {
		t.Fatalf("expected fallback to INFO, got %v", currentLevel)
	}
}
