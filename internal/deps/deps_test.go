package deps

import (
	"os"
	"path/filepath"
	"testing"

	"v2t/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Blank", Command: "  "}})
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].Available {
		t.Fatal("expected blank command to be unavailable")
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", results[0].Detail)
	}
}

func TestForBatchIncludesYtDlpOnlyForRemote(t *testing.T) {
	cfg := config.Default()

	local := ForBatch(&cfg, false)
	for _, req := range local {
		if req.Name == "yt-dlp" {
			t.Fatal("yt-dlp should not be required for local-only batches")
		}
	}

	remote := ForBatch(&cfg, true)
	found := false
	for _, req := range remote {
		if req.Name == "yt-dlp" {
			found = true
			if req.Optional {
				t.Fatal("yt-dlp must be required when the batch has remote inputs")
			}
		}
	}
	if !found {
		t.Fatal("expected yt-dlp requirement for remote batch")
	}
}

func TestMissingIgnoresOptional(t *testing.T) {
	statuses := []Status{
		{Name: "A", Available: true},
		{Name: "B", Available: false, Optional: true},
		{Name: "C", Available: false},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "C" {
		t.Fatalf("unexpected missing set: %#v", missing)
	}
}
