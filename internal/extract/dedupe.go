package extract

import (
	"sort"

	"github.com/MajorE-Garage/arbshift/internal/model"
)

// SortCandidates orders candidates by (file, line, value). The parallel
// scan merges through this so that output is reproducible regardless of
// worker scheduling.
func SortCandidates(cands []RawCandidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].File != cands[j].File {
			return cands[i].File < cands[j].File
		}
		if cands[i].Line != cands[j].Line {
			return cands[i].Line < cands[j].Line
		}
		return cands[i].Value < cands[j].Value
	})
}

// Dedupe merges candidates into one StringRecord per distinct value,
// preserving discovery order. Candidates the extractor already routed to
// manual review (deferred lines, concatenation blocks, escaped quotes)
// carry their category with them.
func Dedupe(cands []RawCandidate) []*model.StringRecord {
	byValue := make(map[string]*model.StringRecord)
	var records []*model.StringRecord

	for _, c := range cands {
		rec, ok := byValue[c.Value]
		if !ok {
			rec = &model.StringRecord{Value: c.Value}
			byValue[c.Value] = rec
			records = append(records, rec)
		}
		rec.AddOccurrence(c.File, c.Line)
		if c.Multiline {
			rec.Multiline = true
		}
		if c.Concatenated {
			rec.Concatenated = true
		}
		if c.Deferred || c.Multiline || c.Escaped {
			rec.Category = model.CategoryManualReview
			if rec.Heuristic == "" {
				switch {
				case c.Multiline:
					rec.Heuristic = "extractor:multiline-block"
				case c.Escaped:
					rec.Heuristic = "extractor:escaped-quotes"
				default:
					rec.Heuristic = "extractor:deferred-marker"
				}
			}
		}
	}
	return records
}
