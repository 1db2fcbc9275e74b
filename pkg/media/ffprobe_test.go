package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func fakeFFprobe(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}
	return path
}

func TestProbeDurationParsesOutput(t *testing.T) {
	p, err := NewFFprobe(fakeFFprobe(t, `echo "125.480000"`), time.Second)
	if err != nil {
		t.Fatalf("new ffprobe: %v", err)
	}
	d, err := p.ProbeDuration(context.Background(), "lecture.mp4")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if d != 125.48 {
		t.Fatalf("unexpected duration: %v", d)
	}
}

func TestProbeDurationReportsFailures(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		timeout time.Duration
		want    error
	}{
		{name: "no duration", script: `echo "N/A"`, timeout: time.Second, want: ErrNoDuration},
		{name: "timeout", script: `exec sleep 5`, timeout: 100 * time.Millisecond, want: ErrProbeTimeout},
		{name: "exit status", script: `echo "invalid data" >&2; exit 1`, timeout: time.Second},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewFFprobe(fakeFFprobe(t, tc.script), tc.timeout)
			if err != nil {
				t.Fatalf("new ffprobe: %v", err)
			}
			_, err = p.ProbeDuration(context.Background(), "broken.mp4")
			if err == nil {
				t.Fatalf("expected probe to fail")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNewFFprobeRequiresBinary(t *testing.T) {
	if _, err := NewFFprobe(filepath.Join(t.TempDir(), "missing-ffprobe"), time.Second); err == nil {
		t.Fatalf("expected missing binary to fail")
	}
}

func TestParseDuration(t *testing.T) {
	tests := map[string]float64{
		"10.5\n":       10.5,
		"N/A\n3\n":     3,
		"  0.000000  ": 0,
	}
	for in, want := range tests {
		got, err := parseDuration(in)
		if err != nil || got != want {
			t.Fatalf("parseDuration(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseDuration("garbage"); !errors.Is(err, ErrNoDuration) {
		t.Fatalf("expected ErrNoDuration, got %v", err)
	}
}
