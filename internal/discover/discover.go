// Package discover walks a source root and selects the files to scan.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Discoverer selects source files under a root, honoring an exclusion list.
type Discoverer struct {
	suffix          string
	exclude         []string
	excludeSuffixes []string
	log             zerolog.Logger
}

// New creates a discoverer for files ending in suffix.
func New(suffix string, exclude, excludeSuffixes []string, log zerolog.Logger) *Discoverer {
	return &Discoverer{
		suffix:          suffix,
		exclude:         exclude,
		excludeSuffixes: excludeSuffixes,
		log:             log,
	}
}

// Discover returns the sorted list of candidate files under root.
// Unreadable directories are skipped, never fatal; a missing root is the
// only error condition.
func (d *Discoverer) Discover(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			d.log.Warn().Str("path", path).Err(err).Msg("skipping unreadable path")
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, d.suffix) {
			return nil
		}
		if d.excluded(path, root) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// Sorted for reproducible reports regardless of filesystem order.
	sort.Strings(files)
	return files, nil
}

// excluded reports whether the file's relative path hits the exclusion list.
func (d *Discoverer) excluded(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, suffix := range d.excludeSuffixes {
		if strings.HasSuffix(rel, suffix) {
			return true
		}
	}
	for _, sub := range d.exclude {
		// Exclusions are written with surrounding slashes; match them
		// against a slash-bounded relative path.
		if strings.Contains("/"+rel, sub) {
			return true
		}
	}
	return false
}
