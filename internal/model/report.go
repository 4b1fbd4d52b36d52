package model

import "time"

// Report is the complete result of one pipeline run.
type Report struct {
	Root        string    `json:"root"`
	CatalogPath string    `json:"catalog_path"`
	StartedAt   time.Time `json:"started_at"`
	DryRun      bool      `json:"dry_run"`

	FilesScanned  int `json:"files_scanned"`
	UniqueStrings int `json:"unique_strings"`

	Counts map[Category]int `json:"counts"`

	// NewEntries are the catalog entries added this run, in key order.
	NewEntries []NewEntry `json:"new_entries,omitempty"`

	// Touched lists per-file mutation counts for files that changed.
	Touched []FileMutations `json:"touched,omitempty"`

	Replacements int `json:"replacements"`
	Annotations  int `json:"annotations"`

	// Unresolved values are anomalies worth surfacing, never fatal.
	Unresolved []string `json:"unresolved,omitempty"`

	Records []*StringRecord `json:"records,omitempty"`

	CompilerRan bool   `json:"compiler_ran"`
	CompilerOut string `json:"compiler_output,omitempty"`

	// Advice is the optional LLM triage output. It never changes a
	// category, a key, or a mutation.
	Advice *ReviewAdvice `json:"advice,omitempty"`
}

// NewEntry is one key added to the catalog during this run.
type NewEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FileMutations counts edits applied to a single source file.
type FileMutations struct {
	Path         string `json:"path"`
	Replacements int    `json:"replacements"`
	Annotations  int    `json:"annotations"`
}

// ReviewAdvice is the optional advisory output of the LLM reviewer.
type ReviewAdvice struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	AdviceMD string   `json:"advice_md,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// CountRecords tallies records per category and collects unresolved values.
func (r *Report) CountRecords() {
	r.Counts = make(map[Category]int, len(Categories))
	r.UniqueStrings = len(r.Records)
	for _, rec := range r.Records {
		r.Counts[rec.Category]++
		if rec.Category == CategoryUnresolved {
			r.Unresolved = append(r.Unresolved, rec.Value)
		}
	}
}
