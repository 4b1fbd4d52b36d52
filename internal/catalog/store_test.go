package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "l10n", "app_en.arb")
	return NewStore(path, "en", zerolog.Nop())
}

func TestStore_LoadAbsentReturnsEmpty(t *testing.T) {
	s := newTestStore(t)
	cat := s.Load()
	if cat.Len() != 0 {
		t.Errorf("Expected empty catalog, got %d entries", cat.Len())
	}
	if cat.Locale != "en" {
		t.Errorf("Expected default locale en, got %q", cat.Locale)
	}
}

func TestStore_LoadCorruptReturnsEmpty(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if cat := s.Load(); cat.Len() != 0 {
		t.Errorf("Expected empty catalog for corrupt file, got %d entries", cat.Len())
	}
}

func TestStore_SaveThenLoad(t *testing.T) {
	s := newTestStore(t)
	cat := NewCatalog("en")
	cat.Add("hello_there", "Hello there", "Auto-generated for: Hello there")

	if err := s.Save(cat); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded := s.Load()
	if loaded.Keys()["hello_there"] != "Hello there" {
		t.Errorf("Load after Save lost the entry: %v", loaded.Keys())
	}

	// Save must not leave its temp file behind.
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file left behind after Save")
	}
}

func TestStore_BackupRestoreByteIdentity(t *testing.T) {
	s := newTestStore(t)
	cat := NewCatalog("en")
	cat.Add("first_key", "First value", "")
	if err := s.Save(cat); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Backup(); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if !s.HasBackup() {
		t.Fatal("Expected backup file to exist")
	}

	// Mutate the live file, then restore.
	cat.Add("second_key", "Second value", "")
	if err := s.Save(cat); err != nil {
		t.Fatal(err)
	}
	if err := s.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("Restore is not byte-identical:\n%s\nvs\n%s", before, after)
	}

	if err := s.DiscardBackup(); err != nil {
		t.Fatalf("DiscardBackup failed: %v", err)
	}
	if s.HasBackup() {
		t.Error("Expected backup gone after discard")
	}
}

func TestStore_RestoreWithoutBackupRemovesLiveFile(t *testing.T) {
	s := newTestStore(t)

	// No live file existed when Backup ran, so Backup wrote nothing.
	if err := s.Backup(); err != nil {
		t.Fatalf("Backup of absent catalog failed: %v", err)
	}
	if s.HasBackup() {
		t.Fatal("Backup of an absent catalog should not create a file")
	}

	cat := NewCatalog("en")
	cat.Add("new_key", "New value", "")
	if err := s.Save(cat); err != nil {
		t.Fatal(err)
	}

	if err := s.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("Expected live file removed, returning to the no-catalog state")
	}
}
