package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartCPUProfileWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.prof")
	stop, err := startCPUProfile(path)
	if err != nil {
		t.Fatalf("startCPUProfile: %v", err)
	}
	stop()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("profile not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("profile file is empty after stop")
	}
}

func TestStartCPUProfileBadPath(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing", "cpu.prof")
	if _, err := startCPUProfile(bad); err == nil {
		t.Error("expected an error for an uncreatable profile path")
	}
}
