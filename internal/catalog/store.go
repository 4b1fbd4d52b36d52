package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Store reads and writes the persisted catalog file with a
// backup-before-write, restore-on-failure discipline.
type Store struct {
	path   string
	locale string
	log    zerolog.Logger
}

// NewStore creates a store for the catalog at path.
func NewStore(path, locale string, log zerolog.Logger) *Store {
	return &Store{path: path, locale: locale, log: log}
}

// Path returns the live catalog path.
func (s *Store) Path() string { return s.path }

// BackupPath returns the sibling backup path.
func (s *Store) BackupPath() string { return s.path + ".backup" }

// Load reads the catalog. An absent or corrupt file yields an empty
// catalog with the default locale, never an error.
func (s *Store) Load() *Catalog {
	cat := NewCatalog(s.locale)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Str("path", s.path).Err(err).Msg("catalog unreadable, treating as empty")
		}
		return cat
	}
	if err := cat.UnmarshalARB(data); err != nil {
		s.log.Warn().Str("path", s.path).Err(err).Msg("catalog corrupt, treating as empty")
		return NewCatalog(s.locale)
	}
	return cat
}

// Save atomically overwrites the catalog file.
func (s *Store) Save(cat *Catalog) error {
	data, err := cat.MarshalARB()
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// Backup copies the live catalog to the backup path, overwriting any stale
// backup. A missing live file is not an error; Restore then removes the
// live file instead of rewriting it.
func (s *Store) Backup() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read catalog for backup: %w", err)
	}
	if err := os.WriteFile(s.BackupPath(), data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Restore copies the backup back over the live file. Without a backup the
// live file is removed, returning to the pre-run state of "no catalog".
func (s *Store) Restore() error {
	data, err := os.ReadFile(s.BackupPath())
	if err != nil {
		if os.IsNotExist(err) {
			if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
				return fmt.Errorf("remove catalog: %w", rmErr)
			}
			return nil
		}
		return fmt.Errorf("read backup: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("restore catalog: %w", err)
	}
	return nil
}

// DiscardBackup removes the backup file if present.
func (s *Store) DiscardBackup() error {
	if err := os.Remove(s.BackupPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("discard backup: %w", err)
	}
	return nil
}

// HasBackup reports whether a backup file exists.
func (s *Store) HasBackup() bool {
	_, err := os.Stat(s.BackupPath())
	return err == nil
}
