package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"v2t/internal/logging"
)

func TestCleanupOldLogsRemovesExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "run-old.log")
	fresh := filepath.Join(dir, "run-fresh.log")
	unrelated := filepath.Join(dir, "notes.txt")

	for _, path := range []string{old, fresh, unrelated} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -10)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(unrelated, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 7, logging.RetentionTarget{Dir: dir, Pattern: "run-*.log"})

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed, stat err = %v", old, err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("expected %s kept: %v", fresh, err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("expected non-matching file kept: %v", err)
	}
}

func TestCleanupOldLogsHonorsExclusions(t *testing.T) {
	dir := t.TempDir()
	protected := filepath.Join(dir, "run-current.log")
	if err := os.WriteFile(protected, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stale := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(protected, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 7, logging.RetentionTarget{
		Dir:     dir,
		Pattern: "run-*.log",
		Exclude: []string{protected},
	})

	if _, err := os.Stat(protected); err != nil {
		t.Fatalf("expected excluded file kept: %v", err)
	}
}

func TestCleanupOldLogsDisabledRetention(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run-ancient.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stale := time.Now().AddDate(-1, 0, 0)
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 0, logging.RetentionTarget{Dir: dir, Pattern: "run-*.log"})

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file kept when retention disabled: %v", err)
	}
}
