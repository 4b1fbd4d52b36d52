// Package rewrite applies the two source mutations: replacing literals
// with symbolic references and annotating deferred strings.
//
// Edits within a file are applied in descending line order, so an edit on
// one line never shifts the line index of another pending edit.
package rewrite

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/MajorE-Garage/arbshift/internal/model"

	"github.com/rs/zerolog"
)

// Mutator rewrites source files in place.
type Mutator struct {
	reference string
	log       zerolog.Logger
}

// NewMutator creates a mutator; literals become <reference>.<key>.
func NewMutator(reference string, log zerolog.Logger) *Mutator {
	return &Mutator{reference: reference, log: log}
}

// edit is one pending change on one line of one file.
type edit struct {
	line  int
	value string
	key   string
}

// Replace rewrites every occurrence of every keyed record into a symbolic
// reference. Returns replacement counts per file. Running Replace twice is
// a no-op the second time: the literal no longer exists verbatim, so
// nothing matches.
func (m *Mutator) Replace(records []*model.StringRecord) (map[string]int, error) {
	perFile := make(map[string][]edit)
	for _, rec := range records {
		if rec.Key == "" {
			continue
		}
		for _, occ := range rec.Occurrences {
			perFile[occ.File] = append(perFile[occ.File], edit{line: occ.Line, value: rec.Value, key: rec.Key})
		}
	}

	counts := make(map[string]int)
	for path, edits := range perFile {
		n, err := m.replaceInFile(path, edits)
		if err != nil {
			return counts, err
		}
		if n > 0 {
			counts[path] = n
		}
	}
	return counts, nil
}

func (m *Mutator) replaceInFile(path string, edits []edit) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	lines := strings.Split(string(data), "\n")

	sort.Slice(edits, func(i, j int) bool { return edits[i].line > edits[j].line })

	replaced := 0
	for _, e := range edits {
		idx := e.line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		ref := m.reference + "." + e.key
		for _, quoted := range []string{"'" + e.value + "'", `"` + e.value + `"`} {
			if !strings.Contains(lines[idx], quoted) {
				continue
			}
			replaced += strings.Count(lines[idx], quoted)
			lines[idx] = strings.ReplaceAll(lines[idx], quoted, ref)
		}
	}

	if replaced == 0 {
		return 0, nil
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	m.log.Debug().Str("file", path).Int("replacements", replaced).Msg("rewrote literals")
	return replaced, nil
}

// Annotate inserts the deferred-for-manual-translation marker directly
// above each occurrence of a manual review record. The literal itself is
// untouched, so idempotence needs the explicit already-present check.
func (m *Mutator) Annotate(records []*model.StringRecord) (map[string]int, error) {
	perFile := make(map[string][]int)
	for _, rec := range records {
		if rec.Category != model.CategoryManualReview {
			continue
		}
		for _, occ := range rec.Occurrences {
			perFile[occ.File] = append(perFile[occ.File], occ.Line)
		}
	}

	counts := make(map[string]int)
	for path, annLines := range perFile {
		n, err := m.annotateFile(path, annLines)
		if err != nil {
			return counts, err
		}
		if n > 0 {
			counts[path] = n
		}
	}
	return counts, nil
}

func (m *Mutator) annotateFile(path string, annLines []int) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	lines := strings.Split(string(data), "\n")

	// Descending order, and each target line at most once even when
	// several records share it.
	sort.Sort(sort.Reverse(sort.IntSlice(annLines)))
	annotated := 0
	lastLine := -1
	for _, line := range annLines {
		if line == lastLine {
			continue
		}
		lastLine = line

		idx := line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		if idx > 0 && strings.Contains(lines[idx-1], model.DeferMarker) {
			continue
		}
		marker := indentOf(lines[idx]) + model.DeferMarker + " needs manual translation"
		lines = append(lines[:idx], append([]string{marker}, lines[idx:]...)...)
		annotated++
	}

	if annotated == 0 {
		return 0, nil
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	m.log.Debug().Str("file", path).Int("annotations", annotated).Msg("annotated deferred strings")
	return annotated, nil
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
