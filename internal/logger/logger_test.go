package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		got, err := ResolveLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ResolveLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestRingKeepsRecentLines(t *testing.T) {
	r := NewRing(3)
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(r, "line %d\n", i)
	}
	got := strings.Join(r.Lines(), ",")
	if got != "line 3,line 4,line 5" {
		t.Fatalf("Lines = %s", got)
	}
}

func TestRingJoinsPartialWrites(t *testing.T) {
	r := NewRing(4)
	io.WriteString(r, "hel")
	io.WriteString(r, "lo\nwor")
	if got := r.Lines(); len(got) != 1 || got[0] != "hello" {
		t.Fatalf("Lines = %q", got)
	}
	io.WriteString(r, "ld\n")
	if got := r.Lines(); len(got) != 2 || got[1] != "world" {
		t.Fatalf("Lines = %q", got)
	}
}

func TestLoggerWritesFileAndRing(t *testing.T) {
	fs := afero.NewMemMapFs()
	l, err := New(Options{Level: "info", Fs: fs, Stderr: io.Discard, Keep: 8})
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("hidden")
	l.Info("screen promoted", "screen", "main")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fs, LogFilePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "screen promoted") || !strings.Contains(string(data), "screen=main") {
		t.Errorf("file = %s", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug record written at info level")
	}
	lines := l.Lines()
	if len(lines) != 1 || !strings.Contains(lines[0], "msg=\"screen promoted\"") {
		t.Errorf("Lines = %q", lines)
	}

	l.SetLevel(slog.LevelDebug)
	l.Debug("now visible")
	if n := len(l.Lines()); n != 2 {
		t.Errorf("after SetLevel got %d lines", n)
	}
}

func TestLoggerRejectsBadLevel(t *testing.T) {
	if _, err := New(Options{Level: "verbose"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoggerWithoutFile(t *testing.T) {
	l, err := New(Options{Stderr: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("ok")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if len(l.Lines()) != 1 {
		t.Fatal("ring should still receive records")
	}
}
