package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestInitAndGet(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	log := Get()
	if log == nil {
		t.Fatal("logger is nil after initialization")
	}

	log.Info(context.Background(), "hello", String("who", "tests"))
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected log output to contain message, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "who=tests") {
		t.Errorf("expected log output to contain field, got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf), WithJSON()); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Warn(context.Background(), "careful", Int("n", 3))
	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"n":3`) {
		t.Errorf("expected field in JSON output, got %q", out)
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf), WithLevel(slog.LevelWarn)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	log := Get()
	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "also hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn level, got %q", buf.String())
	}

	log.Error(context.Background(), "visible", Error(context.Canceled))
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected error entry, got %q", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"", false},
		{"WARN", false},
		{"warning", false},
		{"error", false},
		{"verbose", true},
	}
	for _, tc := range cases {
		err := SetLevelString(tc.in)
		if tc.wantErr && err == nil {
			t.Errorf("SetLevelString(%q): expected error", tc.in)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("SetLevelString(%q): unexpected error: %v", tc.in, err)
		}
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("store").Info(context.Background(), "ready", String("kind", "memory"))
	if !strings.Contains(buf.String(), "store.kind=memory") {
		t.Errorf("expected grouped field, got %q", buf.String())
	}
}
