package model

// Marker comments recognized and emitted by the pipeline.
const (
	// DeferMarker flags the line below it as deferred for manual translation.
	DeferMarker = "// l10n-defer:"

	// IgnoreMarker excludes the line below it from extraction entirely.
	IgnoreMarker = "// l10n-ignore"
)

// Occurrence identifies one physical location of a literal in the source tree.
type Occurrence struct {
	File string `json:"file"`
	Line int    `json:"line"` // 1-based
}

// Category is the classification assigned to a unique string value.
type Category string

const (
	CategoryCataloged    Category = "cataloged"     // already present in the catalog
	CategoryExempt       Category = "exempt"        // not user-facing prose
	CategoryManualReview Category = "manual_review" // needs human attention, annotated only
	CategoryEligible     Category = "eligible"      // safe to catalog and auto-replace
	CategoryUnresolved   Category = "unresolved"    // no rule matched, reported as anomaly
)

// Categories lists all categories in report order.
var Categories = []Category{
	CategoryCataloged,
	CategoryEligible,
	CategoryManualReview,
	CategoryExempt,
	CategoryUnresolved,
}

// StringRecord is one unique literal value and everywhere it occurs.
// All occurrences of an identical value share one record, one category
// and one key.
type StringRecord struct {
	Value       string       `json:"value"`
	Occurrences []Occurrence `json:"occurrences"` // discovery order, unique (file, line) pairs
	Category    Category     `json:"category"`
	Key         string       `json:"key,omitempty"` // resolved from catalog or freshly derived
	Heuristic   string       `json:"heuristic,omitempty"`

	// Multiline marks values assembled from an adjacent-literal
	// concatenation block; those are never auto-replaced.
	Multiline bool `json:"multiline,omitempty"`

	// Concatenated marks values that sit next to a + operator or contain
	// interpolation syntax on their source line.
	Concatenated bool `json:"concatenated,omitempty"`
}

// AddOccurrence appends (file, line) unless the record already has it.
func (r *StringRecord) AddOccurrence(file string, line int) {
	for _, o := range r.Occurrences {
		if o.File == file && o.Line == line {
			return
		}
	}
	r.Occurrences = append(r.Occurrences, Occurrence{File: file, Line: line})
}
