package config

import (
	"path/filepath"
	"testing"
)

func TestReadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Read(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if s.TickSeconds != DefaultTickSeconds {
		t.Fatalf("expected default tick %d, got %d", DefaultTickSeconds, s.TickSeconds)
	}
	if s.SpoolDir == "" {
		t.Fatalf("expected a default spool dir")
	}
}

func TestWriteReadRoundTripNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	in := Settings{
		SpoolDir:      "/var/spool/jobsched",
		ExecScript:    "/usr/local/bin/jobsched-exec.sh",
		TickSeconds:   -3,
		TotalCores:    16,
		TotalMemoryGB: -1,
	}
	if err := Write(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.SpoolDir != in.SpoolDir || out.ExecScript != in.ExecScript {
		t.Fatalf("paths round-tripped wrong: %+v", out)
	}
	if out.TickSeconds != DefaultTickSeconds {
		t.Fatalf("expected invalid tick normalized to %d, got %d", DefaultTickSeconds, out.TickSeconds)
	}
	if out.TotalCores != 16 || out.TotalMemoryGB != 0 {
		t.Fatalf("capacity caps normalized wrong: %+v", out)
	}
}
