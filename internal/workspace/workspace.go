// Package workspace manages the per-run working directory that holds
// downloaded audio and other intermediates.
//
// Each run works under its own run-<uuid> directory guarded by a lock file.
// Opening a run sweeps directories left over from runs that died without
// cleaning up, which is how interrupted downloads eventually get reclaimed.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"v2t/internal/logging"
)

const (
	runPrefix    = "run-"
	lockFileName = ".lock"
)

// Run is one batch run's private working directory.
type Run struct {
	id     string
	dir    string
	lock   *flock.Flock
	logger *slog.Logger
	keep   bool
}

// Open creates a fresh run directory under workDir and locks it. Stale run
// directories from previous crashed runs are removed first.
func Open(workDir string, keep bool, logger *slog.Logger) (*Run, error) {
	workDir = strings.TrimSpace(workDir)
	if workDir == "" {
		return nil, fmt.Errorf("workspace: work directory required")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: ensure work dir: %w", err)
	}

	sweepStale(workDir, logger)

	id := uuid.NewString()
	dir := filepath.Join(workDir, runPrefix+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: create run dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("workspace: lock run dir: %w", err)
	}
	if !locked {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("workspace: run dir already locked")
	}
	return &Run{id: id, dir: dir, lock: lock, logger: logger, keep: keep}, nil
}

// ID returns the run's unique identifier, also the suffix of its directory.
func (r *Run) ID() string {
	return r.id
}

// Dir returns the run directory path.
func (r *Run) Dir() string {
	return r.dir
}

// Close releases the run lock and removes the directory. With keep set the
// directory survives so downloaded audio can be inspected.
func (r *Run) Close() error {
	if r == nil || r.lock == nil {
		return nil
	}
	_ = r.lock.Unlock()
	r.lock = nil

	if r.keep {
		_ = os.Remove(filepath.Join(r.dir, lockFileName))
		if r.logger != nil {
			r.logger.Info("run directory kept", logging.String("path", r.dir))
		}
		return nil
	}
	if err := os.RemoveAll(r.dir); err != nil {
		return fmt.Errorf("workspace: remove run dir: %w", err)
	}
	return nil
}

// sweepStale removes run directories whose lock is no longer held.
func sweepStale(workDir string, logger *slog.Logger) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), runPrefix) {
			continue
		}
		dir := filepath.Join(workDir, entry.Name())
		lock := flock.New(filepath.Join(dir, lockFileName))
		locked, err := lock.TryLock()
		if err != nil || !locked {
			// Held by a live run; leave it alone.
			continue
		}
		_ = lock.Unlock()
		if err := os.RemoveAll(dir); err != nil {
			if logger != nil {
				logger.Warn("failed to remove stale run directory",
					logging.String("path", dir),
					logging.Error(err),
				)
			}
			continue
		}
		if logger != nil {
			logger.Info("removed stale run directory", logging.String("path", dir))
		}
	}
}
