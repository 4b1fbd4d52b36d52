package catalog

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

func TestTxn_LockExcludesConcurrentRuns(t *testing.T) {
	s := newTestStore(t)

	txn, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	if _, err := s.Begin(); !errors.Is(err, ErrLocked) {
		t.Errorf("Expected ErrLocked for second Begin, got %v", err)
	}

	if err := txn.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if _, err := os.Stat(s.LockPath()); !os.IsNotExist(err) {
		t.Error("Expected lock released after Commit")
	}

	// The lock is free again.
	txn, err = s.Begin()
	if err != nil {
		t.Fatalf("Begin after Commit failed: %v", err)
	}
	if err := txn.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if _, err := os.Stat(s.LockPath()); !os.IsNotExist(err) {
		t.Error("Expected lock released after Rollback")
	}
}

func TestTxn_StaleBackupAborts(t *testing.T) {
	s := newTestStore(t)

	cat := NewCatalog("en")
	cat.Add("old_key", "Old value", "")
	if err := s.Save(cat); err != nil {
		t.Fatal(err)
	}
	if err := s.Backup(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Begin(); !errors.Is(err, ErrStaleBackup) {
		t.Fatalf("Expected ErrStaleBackup, got %v", err)
	}
	// The abort must not leave a lock behind.
	if _, err := os.Stat(s.LockPath()); !os.IsNotExist(err) {
		t.Error("Expected no lock after stale-backup abort")
	}
}

func TestTxn_RollbackRestoresCatalog(t *testing.T) {
	s := newTestStore(t)
	cat := NewCatalog("en")
	cat.Add("kept_key", "Kept value", "")
	if err := s.Save(cat); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}

	txn, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	cat.Add("doomed_key", "Doomed value", "")
	if err := s.Save(cat); err != nil {
		t.Fatal(err)
	}
	if err := txn.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("Rollback did not restore bytes:\n%s\nvs\n%s", before, after)
	}
	if s.HasBackup() {
		t.Error("Expected backup discarded after Rollback")
	}
}

func TestTxn_CommitKeepsMutations(t *testing.T) {
	s := newTestStore(t)

	txn, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	cat := NewCatalog("en")
	cat.Add("new_key", "New value", "")
	if err := s.Save(cat); err != nil {
		t.Fatal(err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if s.Load().Keys()["new_key"] != "New value" {
		t.Error("Expected mutation kept after Commit")
	}
	if s.HasBackup() {
		t.Error("Expected backup discarded after Commit")
	}
}
