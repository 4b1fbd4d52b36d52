package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrLocked means another run holds the catalog lock.
var ErrLocked = errors.New("catalog is locked by another run")

// ErrStaleBackup means a previous run left its backup behind, most likely
// after being killed mid-write. An operator has to inspect the backup and
// either restore it over the catalog or delete it before the tool runs
// again.
var ErrStaleBackup = errors.New("stale catalog backup found")

// Txn is the scoped backup→mutate→(commit|rollback) window around the
// catalog file. Every Begin is paired with exactly one Commit or Rollback
// on every exit path.
type Txn struct {
	store *Store
	done  bool
}

// LockPath returns the advisory lock file path.
func (s *Store) LockPath() string { return s.path + ".lock" }

// Begin acquires the advisory lock, refuses to proceed over a stale
// backup, and snapshots the current catalog.
func (s *Store) Begin() (*Txn, error) {
	if err := s.acquireLock(); err != nil {
		return nil, err
	}
	if s.HasBackup() {
		s.releaseLock()
		return nil, fmt.Errorf("%w: %s", ErrStaleBackup, s.BackupPath())
	}
	if err := s.Backup(); err != nil {
		s.releaseLock()
		return nil, err
	}
	return &Txn{store: s}, nil
}

// Commit keeps the mutated catalog and discards the snapshot.
func (t *Txn) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.store.releaseLock()
	return t.store.DiscardBackup()
}

// Rollback puts the catalog back exactly as it was before Begin.
func (t *Txn) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.store.releaseLock()
	if err := t.store.Restore(); err != nil {
		return err
	}
	return t.store.DiscardBackup()
}

func (s *Store) acquireLock() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	f, err := os.OpenFile(s.LockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrLocked, s.LockPath())
		}
		return fmt.Errorf("acquire lock: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	return f.Close()
}

func (s *Store) releaseLock() {
	if err := os.Remove(s.LockPath()); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Str("path", s.LockPath()).Err(err).Msg("could not remove lock file")
	}
}
